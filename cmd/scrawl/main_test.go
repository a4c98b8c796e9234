// ABOUTME: Tests for the scrawl CLI entrypoint covering create and show modes.
// ABOUTME: Runs against a SQLite database under t.TempDir.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "scrawl.db")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBlankDocument(t *testing.T) {
	cfg := config{createMode: true, dbPath: testDB(t)}
	if code := createDocument(cfg); code != 0 {
		t.Fatalf("createDocument exit=%d, want 0", code)
	}
}

func TestCreateFromTemplate(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "board.yaml")
	writeFile(t, tplPath, "title: Retro\nelements:\n  - type: rectangle\n    width: 100\n    height: 40\n")

	db := testDB(t)
	cfg := config{createMode: true, dbPath: db, templateFile: tplPath}
	if code := createDocument(cfg); code != 0 {
		t.Fatalf("createDocument exit=%d, want 0", code)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("database not created: %v", err)
	}
}

func TestOpenStoreUsesXDGDataDir(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	st, err := openStore(config{})
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer st.Close()

	if _, err := os.Stat(filepath.Join(dataHome, "scrawl", "scrawl.db")); err != nil {
		t.Errorf("database not under XDG data dir: %v", err)
	}
}

func TestCreateRejectsBadTemplate(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "board.yaml")
	writeFile(t, tplPath, "elements:\n  - type: hexagon\n")

	cfg := config{createMode: true, dbPath: testDB(t), templateFile: tplPath}
	if code := createDocument(cfg); code != 1 {
		t.Fatalf("createDocument exit=%d, want 1 for unknown element type", code)
	}
}

func TestShowMissingDocument(t *testing.T) {
	cfg := config{dbPath: testDB(t), docID: "no-such-doc"}
	if code := showDocument(cfg); code != 1 {
		t.Fatalf("showDocument exit=%d, want 1", code)
	}
}

func TestPrintHelpContents(t *testing.T) {
	var buf strings.Builder
	printHelp(&buf, "1.2.3")
	out := buf.String()

	for _, want := range []string{"scrawl", "1.2.3", "-create", "-template", "-db", "SCRAWL_USERNAME"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestEnvStatus(t *testing.T) {
	t.Setenv("SCRAWL_TEST_STATUS", "x")
	if got := envStatus("SCRAWL_TEST_STATUS"); got != "[set]" {
		t.Errorf("got %q, want [set]", got)
	}
	if got := envStatus("SCRAWL_TEST_STATUS_MISSING"); got != "[not set]" {
		t.Errorf("got %q, want [not set]", got)
	}
}
