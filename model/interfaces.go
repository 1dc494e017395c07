package model

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot provides an interface for bot functionality to avoid circular dependencies.
type Bot interface {
	GetConfig() *Config
	GetSession() *discordgo.Session
	GetDB() *sqlx.DB
}

// Platform is the subset of the chat platform's REST surface the bot mutates
// guilds through. Errors are mapped to ErrNotFound and ErrPermissionDenied
// where the platform reports them.
type Platform interface {
	SendMessage(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error

	Roles(guildID string) ([]*discordgo.Role, error)
	CreateRole(guildID, name string) (*discordgo.Role, error)
	DeleteRole(guildID, roleID string) error
	AddMemberRole(guildID, userID, roleID, reason string) error
	RemoveMemberRole(guildID, userID, roleID string) error

	Channels(guildID string) ([]*discordgo.Channel, error)
	CreateTextChannel(guildID, name string) (*discordgo.Channel, error)
	DeleteChannel(channelID string) error
	SetSendMessages(channelID, roleID string, allowed bool) error

	Member(guildID, userID string) (*discordgo.Member, error)
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
	Bans(guildID string) ([]*discordgo.GuildBan, error)
	Unban(guildID, userID string) error

	IsAdministrator(guildID, channelID, userID string) (bool, error)
}
