// Package config loads weiser's own runtime configuration — logging and
// environment, as opposed to the operator-authored YAML documents handled
// by internal/configload.
package config

import (
	"log/slog"
	"os"
	"strings"
)

// RuntimeConfig controls weiser's own process behavior: how it logs and
// which environment it believes it's running in. It is populated from
// environment variables, separately from the YAML configuration document.
type RuntimeConfig struct {
	LogLevel  string // debug, info, warn, error (default "info")
	LogFormat string // "text" or "json" (default "text")
	Env       string // "development" (default) or "production"

	// Warnings collects non-fatal warnings generated while loading, logged
	// by the caller once the logger is constructed.
	Warnings []string
}

// SlogLevel maps LogLevel to an slog.Level.
func (c *RuntimeConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction reports whether weiser believes it's running in production.
func (c *RuntimeConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv reads WEISER_LOG_LEVEL, WEISER_LOG_FORMAT, and WEISER_ENV,
// applying weiser's defaults for anything unset.
func LoadFromEnv() *RuntimeConfig {
	cfg := &RuntimeConfig{
		LogLevel:  os.Getenv("WEISER_LOG_LEVEL"),
		LogFormat: os.Getenv("WEISER_LOG_FORMAT"),
		Env:       os.Getenv("WEISER_ENV"),
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		cfg.Warnings = append(cfg.Warnings, "WEISER_LOG_FORMAT must be \"text\" or \"json\" — defaulting to \"text\"")
		cfg.LogFormat = "text"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	return cfg
}

// NewLogger builds the slog.Logger every weiser run uses, writing to w with
// the level and format resolved from cfg.
func NewLogger(cfg *RuntimeConfig, w *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
