package rank

import (
	"context"
	"errors"
	"fmt"

	"indie-bot/model"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// RoleStore looks up level role mappings.
type RoleStore interface {
	GetLevelRole(ctx context.Context, guildID string, level int) (string, bool, error)
}

// RoleGranter is the part of the platform Role Sync talks to.
type RoleGranter interface {
	Roles(guildID string) ([]*discordgo.Role, error)
	AddMemberRole(guildID, userID, roleID, reason string) error
}

// RoleSync grants the role mapped to a level when a member reaches it.
type RoleSync struct {
	store    RoleStore
	platform RoleGranter
	logger   *zap.Logger
}

// NewRoleSync creates a RoleSync.
func NewRoleSync(store RoleStore, platform RoleGranter, logger *zap.Logger) *RoleSync {
	return &RoleSync{store: store, platform: platform, logger: logger}
}

// Apply grants the role configured for level to memberID. A missing mapping,
// a deleted role or a rejected grant is logged and otherwise ignored.
func (r *RoleSync) Apply(ctx context.Context, guildID, memberID string, level int) {
	err := r.apply(ctx, guildID, memberID, level)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrConfigMissing):
		r.logger.Debug("no level role to grant",
			zap.String("guild_id", guildID), zap.Int("level", level), zap.Error(err))
	default:
		r.logger.Warn("failed to grant level role",
			zap.String("guild_id", guildID),
			zap.String("user_id", memberID),
			zap.Int("level", level),
			zap.Error(err))
	}
}

func (r *RoleSync) apply(ctx context.Context, guildID, memberID string, level int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("role sync panicked: %v", rec)
		}
	}()

	roleID, ok, err := r.store.GetLevelRole(ctx, guildID, level)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("level %d has no role: %w", level, model.ErrConfigMissing)
	}

	roles, err := r.platform.Roles(guildID)
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}
	if !hasRole(roles, roleID) {
		return fmt.Errorf("role %s for level %d no longer exists: %w", roleID, level, model.ErrConfigMissing)
	}

	if err := r.platform.AddMemberRole(guildID, memberID, roleID, "Level-up role"); err != nil {
		return fmt.Errorf("failed to add role %s: %w", roleID, err)
	}
	r.logger.Info("granted level role",
		zap.String("guild_id", guildID),
		zap.String("user_id", memberID),
		zap.String("role_id", roleID),
		zap.Int("level", level))
	return nil
}

func hasRole(roles []*discordgo.Role, roleID string) bool {
	for _, role := range roles {
		if role.ID == roleID {
			return true
		}
	}
	return false
}
