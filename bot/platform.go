package bot

import (
	"errors"
	"fmt"
	"net/http"

	"indie-bot/model"

	"github.com/bwmarrin/discordgo"
)

// DiscordPlatform implements model.Platform on top of a discordgo session.
type DiscordPlatform struct {
	s *discordgo.Session
}

var _ model.Platform = (*DiscordPlatform)(nil)

// NewDiscordPlatform wraps s.
func NewDiscordPlatform(s *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{s: s}
}

// mapError tags REST failures with the model error they correspond to.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", model.ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", model.ErrNotFound, err)
		}
	}
	return err
}

func (p *DiscordPlatform) SendMessage(channelID, content string) error {
	_, err := p.s.ChannelMessageSend(channelID, content)
	return mapError(err)
}

func (p *DiscordPlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := p.s.ChannelMessageSendEmbed(channelID, embed)
	return mapError(err)
}

func (p *DiscordPlatform) Roles(guildID string) ([]*discordgo.Role, error) {
	roles, err := p.s.GuildRoles(guildID)
	return roles, mapError(err)
}

func (p *DiscordPlatform) CreateRole(guildID, name string) (*discordgo.Role, error) {
	role, err := p.s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name})
	return role, mapError(err)
}

func (p *DiscordPlatform) DeleteRole(guildID, roleID string) error {
	return mapError(p.s.GuildRoleDelete(guildID, roleID))
}

func (p *DiscordPlatform) AddMemberRole(guildID, userID, roleID, reason string) error {
	if reason == "" {
		return mapError(p.s.GuildMemberRoleAdd(guildID, userID, roleID))
	}
	return mapError(p.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason)))
}

func (p *DiscordPlatform) RemoveMemberRole(guildID, userID, roleID string) error {
	return mapError(p.s.GuildMemberRoleRemove(guildID, userID, roleID))
}

func (p *DiscordPlatform) Channels(guildID string) ([]*discordgo.Channel, error) {
	channels, err := p.s.GuildChannels(guildID)
	return channels, mapError(err)
}

func (p *DiscordPlatform) CreateTextChannel(guildID, name string) (*discordgo.Channel, error) {
	ch, err := p.s.GuildChannelCreate(guildID, name, discordgo.ChannelTypeGuildText)
	return ch, mapError(err)
}

func (p *DiscordPlatform) DeleteChannel(channelID string) error {
	_, err := p.s.ChannelDelete(channelID)
	return mapError(err)
}

// SetSendMessages explicitly allows or denies sending messages for roleID in a channel.
func (p *DiscordPlatform) SetSendMessages(channelID, roleID string, allowed bool) error {
	var allow, deny int64
	if allowed {
		allow = discordgo.PermissionSendMessages
	} else {
		deny = discordgo.PermissionSendMessages
	}
	return mapError(p.s.ChannelPermissionSet(channelID, roleID, discordgo.PermissionOverwriteTypeRole, allow, deny))
}

func (p *DiscordPlatform) Member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := p.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	m, err := p.s.GuildMember(guildID, userID)
	return m, mapError(err)
}

func (p *DiscordPlatform) Kick(guildID, userID, reason string) error {
	return mapError(p.s.GuildMemberDeleteWithReason(guildID, userID, reason))
}

func (p *DiscordPlatform) Ban(guildID, userID, reason string) error {
	return mapError(p.s.GuildBanCreateWithReason(guildID, userID, reason, 0))
}

// banPageSize is the largest page the bans endpoint returns.
const banPageSize = 1000

// Bans returns the guild's whole ban list.
func (p *DiscordPlatform) Bans(guildID string) ([]*discordgo.GuildBan, error) {
	bans, err := collectBans(func(after string) ([]*discordgo.GuildBan, error) {
		return p.s.GuildBans(guildID, banPageSize, "", after)
	})
	return bans, mapError(err)
}

// collectBans follows the after cursor until a short page comes back.
func collectBans(fetch func(after string) ([]*discordgo.GuildBan, error)) ([]*discordgo.GuildBan, error) {
	var all []*discordgo.GuildBan
	after := ""
	for {
		page, err := fetch(after)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < banPageSize {
			return all, nil
		}
		last := page[len(page)-1]
		if last.User == nil || last.User.ID == after {
			return all, nil
		}
		after = last.User.ID
	}
}

func (p *DiscordPlatform) Unban(guildID, userID string) error {
	return mapError(p.s.GuildBanDelete(guildID, userID))
}

// IsAdministrator reports whether userID has the administrator permission in
// channelID. Guild owners always do.
func (p *DiscordPlatform) IsAdministrator(guildID, channelID, userID string) (bool, error) {
	perms, err := p.s.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, mapError(err)
	}
	return perms&discordgo.PermissionAdministrator != 0, nil
}
