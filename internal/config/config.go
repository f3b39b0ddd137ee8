package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	Environment string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	DataDir     string        `env:"DATA_DIR" envDefault:"./data"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	// SessionIdle is how long an unused session stays in memory. Zero
	// keeps sessions until they are deleted.
	SessionIdle time.Duration `env:"SESSION_IDLE" envDefault:"15m"`
	// AutoPresent completes item acquisitions without waiting for the client.
	AutoPresent    bool `env:"AUTO_PRESENT" envDefault:"false"`
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SessionIdle < 0 {
		return nil, fmt.Errorf("SESSION_IDLE must not be negative, got %s", cfg.SessionIdle)
	}
	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
