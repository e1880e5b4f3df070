// Package config reads the daemon settings from DOMINION_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const prefix = "DOMINION"

type Config struct {
	SocketPath string `envconfig:"SOCKET_PATH" default:"/tmp/dominion.sock"`
	HTTPAddr   string `envconfig:"HTTP_ADDR" default:":8080"`
	// DataDir replaces the embedded rule tables when set.
	DataDir  string `envconfig:"DATA_DIR"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Seed makes every roll reproducible; zero seeds from the clock.
	Seed        int64 `envconfig:"SEED"`
	TestJokers  bool  `envconfig:"TEST_JOKERS"`
	MaxAttempts int   `envconfig:"MAX_ATTEMPTS" default:"100"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("load config: %s_MAX_ATTEMPTS must be positive, got %d", prefix, cfg.MaxAttempts)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Level is the configured log level, falling back to info.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}
