package handlers

import (
	"context"
	"time"

	"indie-bot/model"
	"indie-bot/rank"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// isEligible reports whether m may earn XP: a human author, inside a guild,
// and not a bot command.
func isEligible(m *discordgo.Message, isCommand func(string) bool) bool {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return false
	}
	return !isCommand(m.Content)
}

// handleXP runs the accrual path for one message. Failures are logged and the
// award is dropped; nothing here is ever shown to the author.
func (d *Deps) handleXP(ctx context.Context, m *discordgo.Message, now time.Time) {
	transition, err := d.Engine.OnEligibleMessage(ctx, m.GuildID, m.Author.ID, now)
	if err != nil {
		d.Logger.Warn("xp award dropped",
			zap.String("guild_id", m.GuildID),
			zap.String("user_id", m.Author.ID),
			zap.Error(err))
		return
	}
	if transition == nil {
		return
	}
	d.announceLevelUp(ctx, m.ChannelID, m.Author, transition)
}

func (d *Deps) announceLevelUp(ctx context.Context, channelID string, user *discordgo.User, t *model.LevelTransition) {
	d.Logger.Info("level up",
		zap.String("guild_id", t.GuildID),
		zap.String("user_id", t.UserID),
		zap.Int("old_level", t.OldLevel),
		zap.Int("new_level", t.NewLevel),
		zap.Int64("xp", t.XP))

	if err := d.Platform.SendMessage(channelID, rank.LevelUpMessage(user.Mention(), t.NewLevel)); err != nil {
		d.Logger.Warn("failed to announce level up", zap.String("channel_id", channelID), zap.Error(err))
	}
	d.RoleSync.Apply(ctx, t.GuildID, t.UserID, t.NewLevel)
}
