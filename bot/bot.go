package bot

import (
	"fmt"
	"sync/atomic"

	"indie-bot/commands"
	"indie-bot/model"
	"indie-bot/rank"
	"indie-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Bot struct {
	Session   *discordgo.Session
	Platform  model.Platform
	Router    *commands.Router
	Engine    *rank.Engine
	RoleSync  *rank.RoleSync
	Store     *database.XPStore
	Gate      *rank.CooldownGate
	Logger    *zap.Logger
	DB        *sqlx.DB
	config    atomic.Value // *model.Config
	scheduler *Scheduler
}

var _ model.Bot = (*Bot)(nil)

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func New(cfg *model.Config, db *sqlx.DB, logger *zap.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers | discordgo.IntentMessageContent
	dg.StateEnabled = true

	gate, err := rank.NewCooldownGate(cfg.XP.CooldownCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cooldown gate: %w", err)
	}

	platform := NewDiscordPlatform(dg)
	store := database.NewXPStore(db, cfg.Database.Timeout)
	engineCfg := rank.EngineConfig{MinXP: cfg.XP.Min, MaxXP: cfg.XP.Max, Cooldown: cfg.XP.Cooldown}

	b := &Bot{
		Session:  dg,
		Platform: platform,
		Router:   commands.NewRouter(cfg.CommandPrefixes, platform, logger),
		Engine:   rank.NewEngine(store, gate, engineCfg, logger),
		RoleSync: rank.NewRoleSync(store, platform, logger),
		Store:    store,
		Gate:     gate,
		Logger:   logger,
		DB:       db,
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(gate, cfg.XP.CooldownIdlePurge, cfg.XP.CooldownIdlePurge, logger)
	return b, nil
}

func (b *Bot) Close() {
	b.Logger.Info("gracefully shutting down")
	b.scheduler.Stop()
	if err := b.Session.Close(); err != nil {
		b.Logger.Warn("failed to close gateway session", zap.Error(err))
	}
}
