// ABOUTME: Sync coordinator timing configuration loaded from SCRAWL_* environment variables.
// ABOUTME: Debounce, poll, and presence intervals are injected, never hard-coded at call sites.
package collab

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the coordinator's timing knobs.
type Config struct {
	PushDebounce     time.Duration // Delay before a burst of local ops is pushed (SCRAWL_PUSH_DEBOUNCE_MS, default: 500ms)
	PollInterval     time.Duration // Remote operation poll period (SCRAWL_POLL_INTERVAL_MS, default: 2s)
	PresenceInterval time.Duration // Cursor heartbeat period (SCRAWL_PRESENCE_INTERVAL_MS, default: 3s)
}

// DefaultConfig returns the default coordinator timing.
func DefaultConfig() Config {
	return Config{
		PushDebounce:     500 * time.Millisecond,
		PollInterval:     2 * time.Second,
		PresenceInterval: 3 * time.Second,
	}
}

// ConfigFromEnv loads coordinator timing from SCRAWL_* environment
// variables, falling back to defaults, and validates the result.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	var err error
	if cfg.PushDebounce, err = durationEnv("SCRAWL_PUSH_DEBOUNCE_MS", cfg.PushDebounce); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = durationEnv("SCRAWL_POLL_INTERVAL_MS", cfg.PollInterval); err != nil {
		return Config{}, err
	}
	if cfg.PresenceInterval, err = durationEnv("SCRAWL_PRESENCE_INTERVAL_MS", cfg.PresenceInterval); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every interval is positive.
func (c Config) Validate() error {
	if c.PushDebounce <= 0 {
		return fmt.Errorf("push debounce must be positive, got %s", c.PushDebounce)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.PresenceInterval <= 0 {
		return fmt.Errorf("presence interval must be positive, got %s", c.PresenceInterval)
	}
	return nil
}

func durationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
