package model

import "time"

// XPConfig holds the tunables of the XP accrual engine.
type XPConfig struct {
	Min               int
	Max               int
	Cooldown          time.Duration
	CooldownCacheSize int
	CooldownIdlePurge time.Duration
}

// DatabaseConfig describes where the XP ledger lives.
type DatabaseConfig struct {
	Path    string
	Timeout time.Duration
}

// Config 存储应用程序的配置
type Config struct {
	BotToken        string
	LogChannelID    string
	LogLevel        string
	CommandPrefixes []string
	Database        DatabaseConfig
	XP              XPConfig
}
