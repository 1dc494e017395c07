package utils

import (
	"fmt"

	"indie-bot/model"
)

// AdminChecker answers whether a user has administrator rights in a channel.
type AdminChecker interface {
	IsAdministrator(guildID, channelID, userID string) (bool, error)
}

// RequireAdmin returns nil when userID is an administrator of guildID and an
// error wrapping model.ErrPermissionDenied otherwise.
func RequireAdmin(p AdminChecker, guildID, channelID, userID string) error {
	ok, err := p.IsAdministrator(guildID, channelID, userID)
	if err != nil {
		return fmt.Errorf("failed to check permissions for %s: %w", userID, err)
	}
	if !ok {
		return fmt.Errorf("user %s is not an administrator: %w", userID, model.ErrPermissionDenied)
	}
	return nil
}
