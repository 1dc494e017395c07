package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"indie-bot/model"
	"indie-bot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// HandlerFunc runs a command. A returned error is turned into a reply.
type HandlerFunc func(ctx *Context) error

// Command is one prefix command, optionally with subcommands.
type Command struct {
	Name        string
	Usage       string
	AdminOnly   bool
	Handler     HandlerFunc
	Subcommands []*Command
}

func (c *Command) subcommand(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// Context carries one command invocation.
type Context struct {
	context.Context
	Platform  model.Platform
	Logger    *zap.Logger
	GuildID   string
	ChannelID string
	Author    *discordgo.User
	Args      []string
	Command   *Command
	Prefix    string
}

// Reply sends message to the invoking channel.
func (c *Context) Reply(message string) error {
	return c.Platform.SendMessage(c.ChannelID, message)
}

// Arg returns the i-th argument or "".
func (c *Context) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// Rest joins the arguments from i onwards, for free-text values like names.
func (c *Context) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

// UsageError reports malformed arguments for the running command.
func (c *Context) UsageError() error {
	return &ReplyError{
		Msg: fmt.Sprintf("Usage: `%s%s`", c.Prefix, c.Command.Usage),
		Err: model.ErrValidation,
	}
}

// ReplyError is an error whose message is shown to the invoking user as is.
type ReplyError struct {
	Msg string
	Err error
}

func (e *ReplyError) Error() string { return e.Msg }
func (e *ReplyError) Unwrap() error { return e.Err }

// NotFound builds a "<what> not found." reply error.
func NotFound(what string) error {
	return &ReplyError{Msg: what + " not found.", Err: model.ErrNotFound}
}

// Router matches prefixed messages to commands and runs them.
type Router struct {
	prefixes []string
	commands map[string]*Command
	platform model.Platform
	logger   *zap.Logger
}

// NewRouter creates a router for the given prefixes. Longer prefixes are
// tried first so "in." wins over a shorter prefix it starts with.
func NewRouter(prefixes []string, platform model.Platform, logger *zap.Logger) *Router {
	sorted := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	return &Router{
		prefixes: sorted,
		commands: make(map[string]*Command),
		platform: platform,
		logger:   logger,
	}
}

// Register adds commands to the router, replacing any with the same name.
func (r *Router) Register(cmds ...*Command) {
	for _, cmd := range cmds {
		r.commands[cmd.Name] = cmd
	}
}

// IsCommand reports whether content starts with one of the command prefixes.
func (r *Router) IsCommand(content string) bool {
	_, ok := r.matchPrefix(content)
	return ok
}

func (r *Router) matchPrefix(content string) (string, bool) {
	for _, p := range r.prefixes {
		if strings.HasPrefix(content, p) {
			return p, true
		}
	}
	return "", false
}

// Parse splits a prefixed message into a lower-cased command name and its arguments.
func (r *Router) Parse(content string) (prefix, name string, args []string, ok bool) {
	prefix, ok = r.matchPrefix(content)
	if !ok {
		return "", "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", "", nil, false
	}
	return prefix, strings.ToLower(fields[0]), fields[1:], true
}

// Dispatch runs the command in m, if any, and reports whether m was a command.
// Every failure ends in a reply; nothing propagates to the gateway loop.
func (r *Router) Dispatch(ctx context.Context, m *discordgo.Message) bool {
	prefix, name, args, ok := r.Parse(m.Content)
	if !ok || m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return ok
	}

	cmd, found := r.commands[name]
	if !found {
		utils.SendErrorReply(r.platform, r.logger, m.ChannelID, fmt.Sprintf("Unknown command `%s`.", name))
		return true
	}
	adminOnly := cmd.AdminOnly
	if len(args) > 0 {
		if sub := cmd.subcommand(strings.ToLower(args[0])); sub != nil {
			cmd, args = sub, args[1:]
			adminOnly = adminOnly || cmd.AdminOnly
		}
	}

	cctx := &Context{
		Context:   ctx,
		Platform:  r.platform,
		Logger:    r.logger,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Author:    m.Author,
		Args:      args,
		Command:   cmd,
		Prefix:    prefix,
	}

	if adminOnly {
		if err := utils.RequireAdmin(r.platform, m.GuildID, m.ChannelID, m.Author.ID); err != nil {
			r.logger.Info("rejected admin command",
				zap.String("command", cmd.Name),
				zap.String("user_id", m.Author.ID),
				zap.Error(err))
			utils.SendErrorReply(r.platform, r.logger, m.ChannelID, "You need administrator permission to use this command.")
			return true
		}
	}

	if err := r.run(cctx); err != nil {
		r.logger.Info("command failed",
			zap.String("command", cmd.Name),
			zap.String("guild_id", m.GuildID),
			zap.Error(err))
		utils.SendErrorReply(r.platform, r.logger, m.ChannelID, errorMessage(err))
	}
	return true
}

func (r *Router) run(ctx *Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("command panicked", zap.String("command", ctx.Command.Name), zap.Any("panic", rec))
			err = fmt.Errorf("command %s panicked", ctx.Command.Name)
		}
	}()
	if ctx.Command.Handler == nil {
		return ctx.UsageError()
	}
	return ctx.Command.Handler(ctx)
}

func errorMessage(err error) string {
	var re *ReplyError
	switch {
	case errors.As(err, &re):
		return re.Msg
	case errors.Is(err, model.ErrPermissionDenied):
		return "I don't have permission to do that."
	case errors.Is(err, model.ErrNotFound):
		return "Not found."
	case errors.Is(err, model.ErrStore):
		return "The rank database is unavailable right now, try again later."
	default:
		return "Error: " + err.Error()
	}
}
