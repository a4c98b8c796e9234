// ABOUTME: XDG-based data directory resolution for the scrawl CLI.
// ABOUTME: Checks XDG_DATA_HOME first, falls back to ~/.local/share/scrawl.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the default directory for the document database.
// It checks XDG_DATA_HOME first, then falls back to ~/.local/share/scrawl.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "scrawl"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "scrawl"), nil
}
