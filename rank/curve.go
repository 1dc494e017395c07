package rank

// Breakpoint is the minimum cumulative XP needed to reach a level.
type Breakpoint struct {
	Level int
	MinXP int64
}

// breakpoints is strictly increasing in both columns. Early levels are cheap,
// later ones need disproportionately more XP.
var breakpoints = [...]Breakpoint{
	{Level: 1, MinXP: 10},
	{Level: 2, MinXP: 50},
	{Level: 5, MinXP: 290},
	{Level: 10, MinXP: 1090},
	{Level: 25, MinXP: 6490},
	{Level: 50, MinXP: 25490},
	{Level: 75, MinXP: 56990},
	{Level: 100, MinXP: 100990},
}

// Breakpoints returns a copy of the leveling table.
func Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(breakpoints))
	copy(out, breakpoints[:])
	return out
}

// LevelFor returns the highest level whose breakpoint is at or below xp, or 0.
func LevelFor(xp int64) int {
	level := 0
	for _, bp := range breakpoints {
		if xp < bp.MinXP {
			break
		}
		level = bp.Level
	}
	return level
}

// NextMilestone returns the XP of the first breakpoint above level. Past the
// last breakpoint the last threshold is returned; there is no level beyond it.
func NextMilestone(level int) int64 {
	for _, bp := range breakpoints {
		if bp.Level > level {
			return bp.MinXP
		}
	}
	return breakpoints[len(breakpoints)-1].MinXP
}
