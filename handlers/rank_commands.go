package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"indie-bot/commands"
	"indie-bot/model"
	"indie-bot/rank"
	"indie-bot/utils"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50

	// maxCreditAmount caps a single rank addxp, far above the top level.
	maxCreditAmount = 1_000_000
)

func rankCommand(d *Deps) *commands.Command {
	return &commands.Command{
		Name:  "rank",
		Usage: "rank <stats|leaderboard|roles|setrole|removerole|addxp|reset>",
		Handler: func(ctx *commands.Context) error {
			return ctx.Reply("Rank Commands: stats, leaderboard, roles, setrole, removerole, addxp, reset")
		},
		Subcommands: []*commands.Command{
			{Name: "stats", Usage: "rank stats [member]", Handler: d.rankStats},
			{Name: "leaderboard", Usage: "rank leaderboard [limit]", Handler: d.rankLeaderboard},
			{Name: "roles", Usage: "rank roles", Handler: d.rankRoles},
			{Name: "setrole", Usage: "rank setrole <level> <role>", AdminOnly: true, Handler: d.rankSetRole},
			{Name: "removerole", Usage: "rank removerole <level>", AdminOnly: true, Handler: d.rankRemoveRole},
			{Name: "addxp", Usage: "rank addxp <member> <amount>", AdminOnly: true, Handler: d.rankAddXP},
			{Name: "reset", Usage: "rank reset <member>", AdminOnly: true, Handler: d.rankReset},
		},
	}
}

func (d *Deps) rankStats(ctx *commands.Context) error {
	userID, name := ctx.Author.ID, ctx.Author.Username
	if arg := ctx.Arg(0); arg != "" {
		member, err := resolveMember(ctx, arg)
		if err != nil {
			return err
		}
		userID, name = member.User.ID, displayName(member)
	} else if member, err := ctx.Platform.Member(ctx.GuildID, userID); err == nil {
		name = displayName(member)
	}

	xp, err := d.Store.GetXP(ctx, ctx.GuildID, userID)
	if err != nil {
		return err
	}
	level := rank.LevelFor(xp)

	next := fmt.Sprintf("Next milestone: `%d` XP", rank.NextMilestone(level))
	if xp >= rank.NextMilestone(level) {
		next = "Max level reached"
	}
	return ctx.Reply(fmt.Sprintf("%s - XP: `%d`, Level: `%d`, %s", name, xp, level, next))
}

func (d *Deps) rankLeaderboard(ctx *commands.Context) error {
	limit := defaultLeaderboardLimit
	if arg := ctx.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return ctx.UsageError()
		}
		limit = min(n, maxLeaderboardLimit)
	}

	records, err := d.Store.Leaderboard(ctx, ctx.GuildID, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ctx.Reply("No XP data yet.")
	}

	lines := make([]string, 0, len(records))
	for i, rec := range records {
		name := "User " + rec.UserID
		if member, err := ctx.Platform.Member(ctx.GuildID, rec.UserID); err == nil {
			name = displayName(member)
		}
		lines = append(lines, fmt.Sprintf("**%d. %s** - XP `%d`, Level `%d`", i+1, name, rec.XP, rank.LevelFor(rec.XP)))
	}
	return replyLines(ctx, lines)
}

func (d *Deps) rankRoles(ctx *commands.Context) error {
	mappings, err := d.Store.ListLevelRoles(ctx, ctx.GuildID)
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		return ctx.Reply("No level roles configured.")
	}

	lines := make([]string, 0, len(mappings))
	for _, m := range mappings {
		lines = append(lines, fmt.Sprintf("Level `%d` -> <@&%s>", m.Level, m.RoleID))
	}
	return replyLines(ctx, lines)
}

// replyLines sends lines in as many messages as the length limit requires.
func replyLines(ctx *commands.Context, lines []string) error {
	for _, page := range utils.Paginate(lines, utils.MaxMessageLength) {
		if err := ctx.Reply(page); err != nil {
			return err
		}
	}
	return nil
}

// parseLevel accepts only levels that appear in the curve; no other level can
// ever be reached, so a mapping for it would never fire.
func parseLevel(ctx *commands.Context, arg string) (int, error) {
	level, err := strconv.Atoi(arg)
	if err != nil {
		return 0, ctx.UsageError()
	}
	for _, bp := range rank.Breakpoints() {
		if bp.Level == level {
			return level, nil
		}
	}
	return 0, &commands.ReplyError{
		Msg: fmt.Sprintf("Level `%d` is not a reachable level. Levels: %s", level, levelList()),
		Err: model.ErrValidation,
	}
}

func levelList() string {
	bps := rank.Breakpoints()
	levels := make([]string, len(bps))
	for i, bp := range bps {
		levels[i] = strconv.Itoa(bp.Level)
	}
	return strings.Join(levels, ", ")
}

func (d *Deps) rankSetRole(ctx *commands.Context) error {
	if len(ctx.Args) < 2 {
		return ctx.UsageError()
	}
	level, err := parseLevel(ctx, ctx.Arg(0))
	if err != nil {
		return err
	}
	role, err := resolveRole(ctx, ctx.Rest(1))
	if err != nil {
		return err
	}

	if err := d.Store.SetLevelRole(ctx, ctx.GuildID, level, role.ID); err != nil {
		return err
	}
	d.audit("Rank", "SetRole", fmt.Sprintf("level %d -> %s by %s", level, role.Name, ctx.Author.Username))
	return ctx.Reply(fmt.Sprintf("Level `%d` now gives role **%s**", level, role.Name))
}

func (d *Deps) rankRemoveRole(ctx *commands.Context) error {
	if len(ctx.Args) != 1 {
		return ctx.UsageError()
	}
	level, err := strconv.Atoi(ctx.Arg(0))
	if err != nil {
		return ctx.UsageError()
	}

	removed, err := d.Store.RemoveLevelRole(ctx, ctx.GuildID, level)
	if err != nil {
		return err
	}
	if !removed {
		return commands.NotFound(fmt.Sprintf("Role mapping for level `%d`", level))
	}
	d.audit("Rank", "RemoveRole", fmt.Sprintf("level %d by %s", level, ctx.Author.Username))
	return ctx.Reply(fmt.Sprintf("Removed level `%d` role mapping.", level))
}

func (d *Deps) rankAddXP(ctx *commands.Context) error {
	if len(ctx.Args) != 2 {
		return ctx.UsageError()
	}
	amount, err := strconv.ParseInt(ctx.Arg(1), 10, 64)
	if err != nil || amount <= 0 || amount > maxCreditAmount {
		return ctx.UsageError()
	}
	member, err := resolveMember(ctx, ctx.Arg(0))
	if err != nil {
		return err
	}

	transition, err := d.Engine.Credit(ctx, ctx.GuildID, member.User.ID, amount)
	if err != nil {
		return err
	}
	d.audit("Rank", "AddXP", fmt.Sprintf("%d to %s (%s) by %s", amount, member.User.Username, member.User.ID, ctx.Author.Username))
	if err := ctx.Reply(fmt.Sprintf("Added `%d` XP to %s.", amount, displayName(member))); err != nil {
		return err
	}
	if transition != nil {
		d.announceLevelUp(ctx, ctx.ChannelID, member.User, transition)
	}
	return nil
}

func (d *Deps) rankReset(ctx *commands.Context) error {
	if len(ctx.Args) != 1 {
		return ctx.UsageError()
	}
	member, err := resolveMember(ctx, ctx.Arg(0))
	if err != nil {
		return err
	}

	if err := d.Store.ResetXP(ctx, ctx.GuildID, member.User.ID); err != nil {
		return err
	}
	d.audit("Rank", "Reset", fmt.Sprintf("%s (%s) by %s", member.User.Username, member.User.ID, ctx.Author.Username))
	return ctx.Reply(fmt.Sprintf("Reset XP for %s.", displayName(member)))
}
