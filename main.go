package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"indie-bot/bot"
	"indie-bot/config"
	"indie-bot/handlers"
	"indie-bot/utils"
	"indie-bot/utils/database"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.LogChannelID == "" {
		logger.Warn("log_channel_id not set, audit logging to Discord is disabled")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), os.ModePerm); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}
	db, err := database.Init(cfg.Database.Path)
	if err != nil {
		logger.Fatal("error initializing database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}
	defer db.Close()

	b, err := bot.New(cfg, db, logger)
	if err != nil {
		logger.Fatal("error creating bot", zap.Error(err))
	}

	handlers.Register(b)

	if err := b.Run(); err != nil {
		logger.Error("bot stopped", zap.Error(err))
		return
	}
	b.Close()
}
