package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"` // empty: stderr in plain mode, discarded under the TUI
	WrapWidth   int    `env:"STORYBOOK_WRAP_WIDTH" envDefault:"88"`
	Plain       bool   `env:"STORYBOOK_PLAIN" envDefault:"false"`
	TablesFile  string `env:"STORYBOOK_TABLES"` // empty: embedded phrase tables

	LogLevel slog.Level `env:"-"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.WrapWidth <= 0 {
		return nil, fmt.Errorf("STORYBOOK_WRAP_WIDTH must be positive, got %d", cfg.WrapWidth)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
