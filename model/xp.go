package model

// XPRecord is a single row of the xp_users table.
type XPRecord struct {
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
	XP      int64  `db:"xp"`
}

// LevelRole maps a level within a guild to the role granted on reaching it.
type LevelRole struct {
	GuildID string `db:"guild_id"`
	Level   int    `db:"level"`
	RoleID  string `db:"role_id"`
}

// LevelTransition is emitted when an XP award moves a member to a higher level.
type LevelTransition struct {
	GuildID  string
	UserID   string
	OldLevel int
	NewLevel int
	XP       int64
}
