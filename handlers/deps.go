package handlers

import (
	"errors"
	"strings"

	"indie-bot/commands"
	"indie-bot/model"
	"indie-bot/rank"
	"indie-bot/utils"
	"indie-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Deps is everything the message and command handlers need.
type Deps struct {
	Platform     model.Platform
	Store        *database.XPStore
	Engine       *rank.Engine
	RoleSync     *rank.RoleSync
	Gate         *rank.CooldownGate
	Logger       *zap.Logger
	LogChannelID string
	DBPath       string
}

func (d *Deps) audit(module, operation, details string) {
	d.checkAudit(operation, utils.LogInfo(d.Platform, d.LogChannelID, module, operation, details))
}

// auditWarn records actions that remove someone from the guild.
func (d *Deps) auditWarn(module, operation, details string) {
	d.checkAudit(operation, utils.LogWarn(d.Platform, d.LogChannelID, module, operation, details))
}

func (d *Deps) checkAudit(operation string, err error) {
	if err != nil {
		d.Logger.Warn("failed to write audit log", zap.String("operation", operation), zap.Error(err))
	}
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

func resolveMember(ctx *commands.Context, arg string) (*discordgo.Member, error) {
	userID, ok := utils.ParseUserMention(arg)
	if !ok {
		return nil, ctx.UsageError()
	}
	member, err := ctx.Platform.Member(ctx.GuildID, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, commands.NotFound("Member")
		}
		return nil, err
	}
	return member, nil
}

// resolveRole finds a role by mention, ID or exact name.
func resolveRole(ctx *commands.Context, arg string) (*discordgo.Role, error) {
	if arg == "" {
		return nil, ctx.UsageError()
	}
	roles, err := ctx.Platform.Roles(ctx.GuildID)
	if err != nil {
		return nil, err
	}
	roleID, byID := utils.ParseRoleMention(arg)
	for _, role := range roles {
		if (byID && role.ID == roleID) || role.Name == arg {
			return role, nil
		}
	}
	return nil, commands.NotFound("Role")
}

// resolveChannel finds a channel by mention, ID or exact name.
func resolveChannel(ctx *commands.Context, arg string) (*discordgo.Channel, error) {
	channels, err := ctx.Platform.Channels(ctx.GuildID)
	if err != nil {
		return nil, err
	}
	channelID, byID := utils.ParseChannelMention(arg)
	name := strings.TrimPrefix(arg, "#")
	for _, ch := range channels {
		if (byID && ch.ID == channelID) || ch.Name == name {
			return ch, nil
		}
	}
	return nil, commands.NotFound("Channel")
}
