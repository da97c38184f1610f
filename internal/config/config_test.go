package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("WEISER_LOG_LEVEL", "")
	t.Setenv("WEISER_LOG_FORMAT", "")
	t.Setenv("WEISER_ENV", "")

	cfg := LoadFromEnv()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_InvalidLogFormatWarnsAndDefaults(t *testing.T) {
	t.Setenv("WEISER_LOG_FORMAT", "xml")

	cfg := LoadFromEnv()

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Len(t, cfg.Warnings, 1)
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	t.Setenv("WEISER_LOG_LEVEL", "debug")
	t.Setenv("WEISER_LOG_FORMAT", "json")
	t.Setenv("WEISER_ENV", "production")

	cfg := LoadFromEnv()

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.IsProduction())
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &RuntimeConfig{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel())
	}
}
