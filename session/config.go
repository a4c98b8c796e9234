// ABOUTME: Session configuration loaded from SCRAWL_* environment variables.
// ABOUTME: Identity and tuning knobs are injected here instead of living as package globals.
package session

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/scrawl-app/scrawl/core"
)

// Config holds the per-session identity and interaction tuning values.
type Config struct {
	UserID            string        // Stable collaborator id (SCRAWL_USER_ID, default: random UUID)
	Username          string        // Display name for presence (SCRAWL_USERNAME, default: anonymous)
	LogCap            int           // Operation log cap (SCRAWL_LOG_CAP, default: 100)
	GridSize          float64       // Snap grid size in pixels (SCRAWL_GRID_SIZE, default: 20)
	SimplifyTolerance float64       // RDP tolerance in pixels (SCRAWL_SIMPLIFY_TOLERANCE, default: 2)
	EraserThrottle    time.Duration // Min interval between eraser hit tests (SCRAWL_ERASER_THROTTLE_MS, default: 100ms)
	MinElementSize    float64       // Resize clamp floor (SCRAWL_MIN_ELEMENT_SIZE, default: 10)
	DefaultFontSize   float64       // Font size for new text elements (SCRAWL_FONT_SIZE, default: 16)
	DefaultFontFamily string        // Font family for new text elements (SCRAWL_FONT_FAMILY, default: sans-serif)
}

// DefaultConfig returns a Config with all defaults and a fresh random identity.
func DefaultConfig() Config {
	return Config{
		UserID:            uuid.NewString(),
		Username:          "anonymous",
		LogCap:            core.DefaultLogCap,
		GridSize:          20,
		SimplifyTolerance: 2,
		EraserThrottle:    100 * time.Millisecond,
		MinElementSize:    10,
		DefaultFontSize:   16,
		DefaultFontFamily: "sans-serif",
	}
}

// ConfigFromEnv loads configuration from SCRAWL_* environment variables,
// falling back to defaults, and validates the result.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("SCRAWL_USER_ID"); v != "" {
		cfg.UserID = v
	}
	if v := os.Getenv("SCRAWL_USERNAME"); v != "" {
		cfg.Username = v
	}

	var err error
	if cfg.LogCap, err = intEnv("SCRAWL_LOG_CAP", cfg.LogCap); err != nil {
		return Config{}, err
	}
	if cfg.GridSize, err = floatEnv("SCRAWL_GRID_SIZE", cfg.GridSize); err != nil {
		return Config{}, err
	}
	if cfg.SimplifyTolerance, err = floatEnv("SCRAWL_SIMPLIFY_TOLERANCE", cfg.SimplifyTolerance); err != nil {
		return Config{}, err
	}
	if cfg.MinElementSize, err = floatEnv("SCRAWL_MIN_ELEMENT_SIZE", cfg.MinElementSize); err != nil {
		return Config{}, err
	}
	if cfg.DefaultFontSize, err = floatEnv("SCRAWL_FONT_SIZE", cfg.DefaultFontSize); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("SCRAWL_FONT_FAMILY"); v != "" {
		cfg.DefaultFontFamily = v
	}
	throttleMs, err := intEnv("SCRAWL_ERASER_THROTTLE_MS", int(cfg.EraserThrottle/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	cfg.EraserThrottle = time.Duration(throttleMs) * time.Millisecond

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user id must not be empty")
	}
	if c.LogCap <= 0 {
		return fmt.Errorf("log cap must be positive, got %d", c.LogCap)
	}
	if c.GridSize <= 0 {
		return fmt.Errorf("grid size must be positive, got %g", c.GridSize)
	}
	if c.SimplifyTolerance < 0 {
		return fmt.Errorf("simplify tolerance must not be negative, got %g", c.SimplifyTolerance)
	}
	if c.EraserThrottle < 0 {
		return fmt.Errorf("eraser throttle must not be negative, got %s", c.EraserThrottle)
	}
	if c.MinElementSize <= 0 {
		return fmt.Errorf("min element size must be positive, got %g", c.MinElementSize)
	}
	return nil
}

func intEnv(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}
