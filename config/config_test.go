package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/dominion.sock", cfg.SocketPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.DataDir)
	assert.Zero(t, cfg.Seed)
	assert.False(t, cfg.TestJokers)
	assert.Equal(t, 100, cfg.MaxAttempts)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DOMINION_SOCKET_PATH", "/run/dominion.sock")
	t.Setenv("DOMINION_DATA_DIR", "/srv/tables")
	t.Setenv("DOMINION_LOG_LEVEL", "debug")
	t.Setenv("DOMINION_SEED", "42")
	t.Setenv("DOMINION_TEST_JOKERS", "true")
	t.Setenv("DOMINION_MAX_ATTEMPTS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/run/dominion.sock", cfg.SocketPath)
	assert.Equal(t, "/srv/tables", cfg.DataDir)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.True(t, cfg.TestJokers)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero attempts", "DOMINION_MAX_ATTEMPTS", "0"},
		{"non-numeric seed", "DOMINION_SEED", "dice"},
		{"unknown level", "DOMINION_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
