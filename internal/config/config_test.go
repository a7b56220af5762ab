package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.Upstream.BaseURL != "https://radio.garden/api/ara/content" {
		t.Errorf("Upstream.BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("Upstream.Timeout = %s", cfg.Upstream.Timeout)
	}
	if !cfg.Game.Enabled || cfg.Game.MaxSessions != 1000 {
		t.Errorf("Game = %+v", cfg.Game)
	}
	want := Round{MaxAttempts: 5, InitialBackoff: 200 * time.Millisecond, MaxBackoff: 5 * time.Second, SelectTimeout: 10 * time.Second}
	if cfg.Round != want {
		t.Errorf("Round = %+v, want %+v", cfg.Round, want)
	}
	if cfg.Metrics.Enabled || cfg.Metrics.ServiceName != "radioguessr" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("UPSTREAM_BASE_URL", "http://upstream.test/content")
	t.Setenv("ROUND_MAX_ATTEMPTS", "3")
	t.Setenv("PLAYBACK_STARTUP_TIMEOUT", "2s")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("GAME_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.Upstream.BaseURL != "http://upstream.test/content" {
		t.Errorf("Upstream.BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Round.MaxAttempts != 3 {
		t.Errorf("Round.MaxAttempts = %d", cfg.Round.MaxAttempts)
	}
	if cfg.Playback.StartupTimeout != 2*time.Second {
		t.Errorf("Playback.StartupTimeout = %s", cfg.Playback.StartupTimeout)
	}
	if !cfg.Metrics.Enabled || cfg.Game.Enabled {
		t.Errorf("Metrics.Enabled = %v, Game.Enabled = %v", cfg.Metrics.Enabled, cfg.Game.Enabled)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero attempts", "ROUND_MAX_ATTEMPTS", "0"},
		{"zero sessions", "GAME_MAX_SESSIONS", "0"},
		{"bad duration", "UPSTREAM_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%s succeeded", tt.key, tt.val)
			}
		})
	}
}
