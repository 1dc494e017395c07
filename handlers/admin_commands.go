package handlers

import (
	"fmt"

	"indie-bot/commands"

	"github.com/bwmarrin/discordgo"
)

func roleCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "role",
		Usage:     "role <create|delete> <name>",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			return ctx.Reply("Actions: create/delete")
		},
		Subcommands: []*commands.Command{
			{Name: "create", Usage: "role create <name>", AdminOnly: true, Handler: d.roleCreate},
			{Name: "delete", Usage: "role delete <name>", AdminOnly: true, Handler: d.roleDelete},
		},
	}
}

func (d *Deps) roleCreate(ctx *commands.Context) error {
	name := ctx.Rest(0)
	if name == "" {
		return ctx.UsageError()
	}
	role, err := ctx.Platform.CreateRole(ctx.GuildID, name)
	if err != nil {
		return err
	}
	d.audit("Role", "Create", fmt.Sprintf("%s by %s", role.Name, ctx.Author.Username))
	return ctx.Reply(fmt.Sprintf("Created role **%s**.", role.Name))
}

func (d *Deps) roleDelete(ctx *commands.Context) error {
	role, err := resolveRole(ctx, ctx.Rest(0))
	if err != nil {
		return err
	}
	if err := ctx.Platform.DeleteRole(ctx.GuildID, role.ID); err != nil {
		return err
	}
	d.audit("Role", "Delete", fmt.Sprintf("%s (%s) by %s", role.Name, role.ID, ctx.Author.Username))
	return ctx.Reply(fmt.Sprintf("Deleted role **%s**.", role.Name))
}

func giveRoleCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "giverole",
		Usage:     "giverole <member> <role>",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			member, role, err := memberAndRole(ctx)
			if err != nil {
				return err
			}
			if err := ctx.Platform.AddMemberRole(ctx.GuildID, member.User.ID, role.ID, ""); err != nil {
				return err
			}
			d.audit("Role", "Give", fmt.Sprintf("%s to %s by %s", role.Name, member.User.Username, ctx.Author.Username))
			return ctx.Reply(fmt.Sprintf("Added **%s** to %s.", role.Name, displayName(member)))
		},
	}
}

func removeRoleCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "removerole",
		Usage:     "removerole <member> <role>",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			member, role, err := memberAndRole(ctx)
			if err != nil {
				return err
			}
			if err := ctx.Platform.RemoveMemberRole(ctx.GuildID, member.User.ID, role.ID); err != nil {
				return err
			}
			d.audit("Role", "Remove", fmt.Sprintf("%s from %s by %s", role.Name, member.User.Username, ctx.Author.Username))
			return ctx.Reply(fmt.Sprintf("Removed **%s** from %s.", role.Name, displayName(member)))
		},
	}
}

func memberAndRole(ctx *commands.Context) (*discordgo.Member, *discordgo.Role, error) {
	if len(ctx.Args) < 2 {
		return nil, nil, ctx.UsageError()
	}
	member, err := resolveMember(ctx, ctx.Arg(0))
	if err != nil {
		return nil, nil, err
	}
	role, err := resolveRole(ctx, ctx.Rest(1))
	if err != nil {
		return nil, nil, err
	}
	return member, role, nil
}

func channelCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:      "channel",
		Usage:     "channel <create|delete> <name>",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			return ctx.Reply("Actions: create/delete")
		},
		Subcommands: []*commands.Command{
			{Name: "create", Usage: "channel create <name>", AdminOnly: true, Handler: d.channelCreate},
			{Name: "delete", Usage: "channel delete <name>", AdminOnly: true, Handler: d.channelDelete},
		},
	}
}

func (d *Deps) channelCreate(ctx *commands.Context) error {
	name := ctx.Rest(0)
	if name == "" {
		return ctx.UsageError()
	}
	ch, err := ctx.Platform.CreateTextChannel(ctx.GuildID, name)
	if err != nil {
		return err
	}
	d.audit("Channel", "Create", fmt.Sprintf("#%s by %s", ch.Name, ctx.Author.Username))
	return ctx.Reply(fmt.Sprintf("Created channel **#%s**.", ch.Name))
}

func (d *Deps) channelDelete(ctx *commands.Context) error {
	if ctx.Arg(0) == "" {
		return ctx.UsageError()
	}
	ch, err := resolveChannel(ctx, ctx.Rest(0))
	if err != nil {
		return err
	}
	if err := ctx.Platform.DeleteChannel(ch.ID); err != nil {
		return err
	}
	d.audit("Channel", "Delete", fmt.Sprintf("#%s (%s) by %s", ch.Name, ch.ID, ctx.Author.Username))
	// The invoking channel may be the one just deleted.
	if ch.ID == ctx.ChannelID {
		return nil
	}
	return ctx.Reply(fmt.Sprintf("Deleted channel **#%s**.", ch.Name))
}

func lockCommand(d *Deps, name string, allowed bool) *commands.Command {
	verb := "Locked"
	if allowed {
		verb = "Unlocked"
	}
	return &commands.Command{
		Name:      name,
		Usage:     name + " [#channel]",
		AdminOnly: true,
		Handler: func(ctx *commands.Context) error {
			arg := ctx.Arg(0)
			if arg == "" {
				arg = "<#" + ctx.ChannelID + ">"
			}
			ch, err := resolveChannel(ctx, arg)
			if err != nil {
				return err
			}
			// The @everyone role shares the guild's ID.
			if err := ctx.Platform.SetSendMessages(ch.ID, ctx.GuildID, allowed); err != nil {
				return err
			}
			d.audit("Channel", verb, fmt.Sprintf("#%s by %s", ch.Name, ctx.Author.Username))
			return ctx.Reply(fmt.Sprintf("%s **#%s**.", verb, ch.Name))
		},
	}
}
