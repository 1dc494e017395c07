package handlers

import (
	"fmt"
	"strings"

	"indie-bot/commands"
	"indie-bot/model"

	"github.com/bwmarrin/discordgo"
)

const defaultReason = "No reason"

func kickCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "kick",
		Usage:     "kick <member> [reason]",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			member, reason, err := memberAndReason(ctx)
			if err != nil {
				return err
			}
			if err := ctx.Platform.Kick(ctx.GuildID, member.User.ID, reason); err != nil {
				return err
			}
			d.auditWarn("Moderation", "Kick", fmt.Sprintf("%s (%s) by %s: %s", member.User.Username, member.User.ID, ctx.Author.Username, reason))
			return ctx.Reply(fmt.Sprintf("Kicked %s.", displayName(member)))
		},
	}
}

func banCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "ban",
		Usage:     "ban <member> [reason]",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			member, reason, err := memberAndReason(ctx)
			if err != nil {
				return err
			}
			if err := ctx.Platform.Ban(ctx.GuildID, member.User.ID, reason); err != nil {
				return err
			}
			d.auditWarn("Moderation", "Ban", fmt.Sprintf("%s (%s) by %s: %s", member.User.Username, member.User.ID, ctx.Author.Username, reason))
			return ctx.Reply(fmt.Sprintf("Banned %s.", displayName(member)))
		},
	}
}

func memberAndReason(ctx *commands.Context) (*discordgo.Member, string, error) {
	if len(ctx.Args) < 1 {
		return nil, "", ctx.UsageError()
	}
	member, err := resolveMember(ctx, ctx.Arg(0))
	if err != nil {
		return nil, "", err
	}
	reason := ctx.Rest(1)
	if reason == "" {
		reason = defaultReason
	}
	return member, reason, nil
}

// banTag is what unban matches against: a username with an optional
// discriminator, or a user ID.
type banTag struct {
	name          string
	discriminator string
}

func parseBanTag(s string) (banTag, bool) {
	if s == "" || strings.ContainsAny(s, " \t") {
		return banTag{}, false
	}
	name, discrim, found := strings.Cut(s, "#")
	if !found {
		return banTag{name: s}, true
	}
	if name == "" || discrim == "" || strings.Contains(discrim, "#") {
		return banTag{}, false
	}
	return banTag{name: name, discriminator: discrim}, true
}

func (t banTag) matches(u *discordgo.User) bool {
	if u == nil {
		return false
	}
	if t.discriminator == "" {
		return u.Username == t.name || u.ID == t.name
	}
	return u.Username == t.name && u.Discriminator == t.discriminator
}

func unbanCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "unban",
		Usage:     "unban <username#discriminator>",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			tag, ok := parseBanTag(ctx.Rest(0))
			if !ok {
				return ctx.UsageError()
			}
			bans, err := ctx.Platform.Bans(ctx.GuildID)
			if err != nil {
				return err
			}
			for _, ban := range bans {
				if !tag.matches(ban.User) {
					continue
				}
				if err := ctx.Platform.Unban(ctx.GuildID, ban.User.ID); err != nil {
					return err
				}
				d.audit("Moderation", "Unban", fmt.Sprintf("%s (%s) by %s", ban.User.Username, ban.User.ID, ctx.Author.Username))
				return ctx.Reply(fmt.Sprintf("Unbanned %s.", ban.User.String()))
			}
			return &commands.ReplyError{Msg: "User not found in ban list.", Err: model.ErrNotFound}
		},
	}
}
