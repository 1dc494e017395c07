package utils

// Embed colors.
const (
	ColorGreen   = 0x2ECC71
	ColorOrange  = 0xE67E22
	ColorRed     = 0xE74C3C
	ColorBlue    = 0x3498DB
	ColorBlurple = 0x5865F2
)

func getColor(level LogLevel) int {
	switch level {
	case Info:
		return ColorGreen
	case Warn:
		return ColorOrange
	case Error:
		return ColorRed
	default:
		return ColorBlue
	}
}
