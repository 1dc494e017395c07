package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"indie-bot/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultTimeout bounds every ledger call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

const xpSchema = `
CREATE TABLE IF NOT EXISTS xp_users (
	guild_id INTEGER,
	user_id INTEGER,
	xp INTEGER DEFAULT 0,
	PRIMARY KEY (guild_id, user_id)
);
CREATE TABLE IF NOT EXISTS xp_roles (
	guild_id INTEGER,
	level INTEGER,
	role_id INTEGER,
	PRIMARY KEY (guild_id, level)
);`

// Init opens the SQLite ledger at dbPath and makes sure both XP tables exist.
func Init(dbPath string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(xpSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create xp tables: %w", err)
	}
	return db, nil
}

// Size returns the on-disk size of the database in bytes, write-ahead log included.
func Size(dbPath string) (int64, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0, err
	}
	size := info.Size()
	if wal, err := os.Stat(dbPath + "-wal"); err == nil {
		size += wal.Size()
	}
	return size, nil
}

// XPStore is the XP ledger: member XP and level role mappings per guild.
// Snowflake IDs are passed as strings and stored with INTEGER affinity.
type XPStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewXPStore wraps db. A non-positive timeout falls back to DefaultTimeout.
func NewXPStore(db *sqlx.DB, timeout time.Duration) *XPStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &XPStore{db: db, timeout: timeout}
}

func (s *XPStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrStore, err)
}

// AddXP adds delta to the member's XP in a single upsert and returns the new total.
func (s *XPStore) AddXP(ctx context.Context, guildID, userID string, delta int64) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if delta < 0 {
		return 0, fmt.Errorf("xp delta must not be negative, got %d: %w", delta, model.ErrValidation)
	}

	// An increment that would overflow int64 is skipped and returns no row.
	var total int64
	err := s.db.GetContext(ctx, &total, `
		INSERT INTO xp_users (guild_id, user_id, xp)
		VALUES (?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET xp = xp + excluded.xp
		WHERE xp <= ? - excluded.xp
		RETURNING xp`, guildID, userID, delta, int64(math.MaxInt64))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("adding %d xp for user %s in guild %s would overflow: %w", delta, userID, guildID, model.ErrValidation)
	}
	if err != nil {
		return 0, storeErr(fmt.Sprintf("failed to add xp for user %s in guild %s", userID, guildID), err)
	}
	return total, nil
}

// GetXP returns the member's XP, or 0 if they have none.
func (s *XPStore) GetXP(ctx context.Context, guildID, userID string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var xp int64
	err := s.db.GetContext(ctx, &xp, "SELECT xp FROM xp_users WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr(fmt.Sprintf("failed to get xp for user %s in guild %s", userID, guildID), err)
	}
	return xp, nil
}

// ResetXP removes the member's XP record.
func (s *XPStore) ResetXP(ctx context.Context, guildID, userID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, "DELETE FROM xp_users WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if err != nil {
		return storeErr(fmt.Sprintf("failed to reset xp for user %s in guild %s", userID, guildID), err)
	}
	return nil
}

// Leaderboard returns the top limit members of a guild by XP.
func (s *XPStore) Leaderboard(ctx context.Context, guildID string, limit int) ([]model.XPRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var records []model.XPRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT guild_id, user_id, xp FROM xp_users
		WHERE guild_id = ?
		ORDER BY xp DESC, user_id ASC
		LIMIT ?`, guildID, limit)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("failed to get leaderboard for guild %s", guildID), err)
	}
	return records, nil
}

// SetLevelRole maps level to roleID, replacing any existing mapping.
func (s *XPStore) SetLevelRole(ctx context.Context, guildID string, level int, roleID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO xp_roles (guild_id, level, role_id)
		VALUES (?, ?, ?)
		ON CONFLICT(guild_id, level) DO UPDATE SET role_id = excluded.role_id`, guildID, level, roleID)
	if err != nil {
		return storeErr(fmt.Sprintf("failed to set role for level %d in guild %s", level, guildID), err)
	}
	return nil
}

// RemoveLevelRole deletes the mapping for level and reports whether one existed.
func (s *XPStore) RemoveLevelRole(ctx context.Context, guildID string, level int) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM xp_roles WHERE guild_id = ? AND level = ?", guildID, level)
	if err != nil {
		return false, storeErr(fmt.Sprintf("failed to remove role for level %d in guild %s", level, guildID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("failed to check rows affected", err)
	}
	return rowsAffected > 0, nil
}

// GetLevelRole returns the role mapped to level, if any.
func (s *XPStore) GetLevelRole(ctx context.Context, guildID string, level int) (string, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var roleID string
	err := s.db.GetContext(ctx, &roleID, "SELECT role_id FROM xp_roles WHERE guild_id = ? AND level = ?", guildID, level)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr(fmt.Sprintf("failed to get role for level %d in guild %s", level, guildID), err)
	}
	return roleID, true, nil
}

// ListLevelRoles returns every level role mapping of a guild, lowest level first.
func (s *XPStore) ListLevelRoles(ctx context.Context, guildID string) ([]model.LevelRole, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var roles []model.LevelRole
	err := s.db.SelectContext(ctx, &roles, "SELECT guild_id, level, role_id FROM xp_roles WHERE guild_id = ? ORDER BY level ASC", guildID)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("failed to list level roles for guild %s", guildID), err)
	}
	return roles, nil
}
