package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"indie-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from .env, an optional YAML file and the
// environment. Environment variables win over the file; dotted keys map to
// underscores, so xp.cooldown is read from XP_COOLDOWN. An empty path looks
// for config.yaml in ./config and the working directory.
func Load(path string) (*model.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &model.Config{
		BotToken:        strings.TrimSpace(v.GetString("bot_token")),
		LogChannelID:    strings.TrimSpace(v.GetString("log_channel_id")),
		LogLevel:        v.GetString("log.level"),
		CommandPrefixes: prefixes(v.Get("command_prefixes")),
		Database: model.DatabaseConfig{
			Path:    v.GetString("database.path"),
			Timeout: v.GetDuration("database.timeout"),
		},
		XP: model.XPConfig{
			Min:               v.GetInt("xp.min"),
			Max:               v.GetInt("xp.max"),
			Cooldown:          v.GetDuration("xp.cooldown"),
			CooldownCacheSize: v.GetInt("xp.cooldown_cache_size"),
			CooldownIdlePurge: v.GetDuration("xp.cooldown_idle_purge"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot_token", "")
	v.SetDefault("log_channel_id", "")
	v.SetDefault("command_prefixes", "in.,!")
	v.SetDefault("log.level", "info")

	v.SetDefault("database.path", "data/ranks.db")
	v.SetDefault("database.timeout", 5*time.Second)

	v.SetDefault("xp.min", 5)
	v.SetDefault("xp.max", 12)
	v.SetDefault("xp.cooldown", 60*time.Second)
	v.SetDefault("xp.cooldown_cache_size", 10000)
	v.SetDefault("xp.cooldown_idle_purge", time.Hour)
}

// prefixes accepts either a comma separated string (environment) or a YAML list.
func prefixes(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first setting that would leave the bot unusable.
func Validate(cfg *model.Config) error {
	switch {
	case cfg.BotToken == "":
		return fmt.Errorf("%w: bot_token is required", model.ErrValidation)
	case len(cfg.CommandPrefixes) == 0:
		return fmt.Errorf("%w: at least one command prefix is required", model.ErrValidation)
	case cfg.Database.Path == "":
		return fmt.Errorf("%w: database.path is required", model.ErrValidation)
	case cfg.Database.Timeout <= 0:
		return fmt.Errorf("%w: database.timeout must be positive", model.ErrValidation)
	case cfg.XP.Min < 1 || cfg.XP.Max < cfg.XP.Min:
		return fmt.Errorf("%w: xp range %d-%d is invalid", model.ErrValidation, cfg.XP.Min, cfg.XP.Max)
	case cfg.XP.Cooldown < 0:
		return fmt.Errorf("%w: xp.cooldown must not be negative", model.ErrValidation)
	case cfg.XP.CooldownCacheSize <= 0:
		return fmt.Errorf("%w: xp.cooldown_cache_size must be positive", model.ErrValidation)
	case cfg.XP.CooldownIdlePurge <= 0:
		return fmt.Errorf("%w: xp.cooldown_idle_purge must be positive", model.ErrValidation)
	}
	return nil
}
