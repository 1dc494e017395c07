package handlers

import (
	"context"
	"fmt"
	"time"

	"indie-bot/bot"
	"indie-bot/commands"
	"indie-bot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Register wires the command table and gateway handlers into b.
func Register(b *bot.Bot) {
	cfg := b.GetConfig()
	d := &Deps{
		Platform:     b.Platform,
		Store:        b.Store,
		Engine:       b.Engine,
		RoleSync:     b.RoleSync,
		Gate:         b.Gate,
		Logger:       b.Logger,
		LogChannelID: cfg.LogChannelID,
		DBPath:       cfg.Database.Path,
	}
	b.Router.Register(CommandTable(d)...)
	addHandlers(b, NewMessageHandler(d, b.Router))
}

// CommandTable returns every prefix command the bot answers to.
func CommandTable(d *Deps) []*commands.Command {
	return []*commands.Command{
		roleCommand(d),
		giveRoleCommand(d),
		removeRoleCommand(d),
		channelCommand(d),
		lockCommand(d, "lock", false),
		lockCommand(d, "unlock", true),
		kickCommand(d),
		banCommand(d),
		unbanCommand(d),
		rankCommand(d),
		systemInfoCommand(d),
	}
}

// MessageHandler handles every guild message: XP first, then commands.
type MessageHandler struct {
	deps   *Deps
	router *commands.Router
	now    func() time.Time
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(d *Deps, router *commands.Router) *MessageHandler {
	return &MessageHandler{deps: d, router: router, now: time.Now}
}

// Handle processes one message.
func (h *MessageHandler) Handle(ctx context.Context, m *discordgo.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			h.deps.Logger.Error("message handler panicked", zap.String("message_id", m.ID), zap.Any("panic", rec))
			h.deps.checkAudit("Panic", utils.LogError(h.deps.Platform, h.deps.LogChannelID, "System", "Panic", fmt.Sprint(rec)))
		}
	}()

	if isEligible(m, h.router.IsCommand) {
		h.deps.handleXP(ctx, m, h.now())
	}
	h.router.Dispatch(ctx, m)
}

func addHandlers(b *bot.Bot, mh *MessageHandler) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.Logger.Info("logged in", zap.String("username", r.User.Username), zap.Int("guilds", len(r.Guilds)))
		if err := utils.LogInfo(b.Platform, b.GetConfig().LogChannelID, "System", "Startup", "Bot has started successfully."); err != nil {
			b.Logger.Warn("failed to send startup log", zap.Error(err))
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		mh.Handle(context.Background(), m.Message)
	})
}
