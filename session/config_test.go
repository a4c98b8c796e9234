// ABOUTME: Tests for environment-driven session configuration.
// ABOUTME: Uses t.Setenv so overrides never leak between tests.
package session_test

import (
	"testing"
	"time"

	"github.com/scrawl-app/scrawl/session"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := session.ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.UserID == "" {
		t.Error("default user id must be generated")
	}
	if cfg.Username != "anonymous" {
		t.Errorf("username=%q, want anonymous", cfg.Username)
	}
	if cfg.LogCap != 100 {
		t.Errorf("log cap=%d, want 100", cfg.LogCap)
	}
	if cfg.GridSize != 20 || cfg.SimplifyTolerance != 2 {
		t.Errorf("grid=%g tolerance=%g", cfg.GridSize, cfg.SimplifyTolerance)
	}
	if cfg.EraserThrottle != 100*time.Millisecond {
		t.Errorf("throttle=%s, want 100ms", cfg.EraserThrottle)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("SCRAWL_USER_ID", "u-42")
	t.Setenv("SCRAWL_USERNAME", "ada")
	t.Setenv("SCRAWL_LOG_CAP", "250")
	t.Setenv("SCRAWL_GRID_SIZE", "8")
	t.Setenv("SCRAWL_ERASER_THROTTLE_MS", "50")

	cfg, err := session.ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.UserID != "u-42" || cfg.Username != "ada" {
		t.Errorf("identity=%q/%q", cfg.UserID, cfg.Username)
	}
	if cfg.LogCap != 250 || cfg.GridSize != 8 {
		t.Errorf("cap=%d grid=%g", cfg.LogCap, cfg.GridSize)
	}
	if cfg.EraserThrottle != 50*time.Millisecond {
		t.Errorf("throttle=%s, want 50ms", cfg.EraserThrottle)
	}
}

func TestConfigFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("SCRAWL_LOG_CAP", "many")
	if _, err := session.ConfigFromEnv(); err == nil {
		t.Error("non-numeric log cap must fail")
	}
}

func TestConfigValidateRanges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*session.Config)
	}{
		{"empty user id", func(c *session.Config) { c.UserID = "" }},
		{"zero log cap", func(c *session.Config) { c.LogCap = 0 }},
		{"negative grid", func(c *session.Config) { c.GridSize = -1 }},
		{"negative tolerance", func(c *session.Config) { c.SimplifyTolerance = -0.5 }},
		{"negative throttle", func(c *session.Config) { c.EraserThrottle = -time.Second }},
		{"zero min size", func(c *session.Config) { c.MinElementSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := session.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
