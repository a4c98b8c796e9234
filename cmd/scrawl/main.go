// ABOUTME: CLI entrypoint for the scrawl canvas store with create and show modes.
// ABOUTME: Wires together the SQLite document store, YAML templates, and the data directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scrawl-app/scrawl/core"
	"github.com/scrawl-app/scrawl/store"
	"github.com/scrawl-app/scrawl/template"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	createMode   bool
	title        string
	templateFile string
	dbPath       string
	showVersion  bool
	docID        string
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("scrawl %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("scrawl", flag.ContinueOnError)
	fs.BoolVar(&cfg.createMode, "create", false, "Create a new document")
	fs.StringVar(&cfg.title, "title", "", "Title for the new document (default: template title)")
	fs.StringVar(&cfg.templateFile, "template", "", "YAML template to seed the new document")
	fs.StringVar(&cfg.dbPath, "db", "", "Path to the document database (default: $XDG_DATA_HOME/scrawl/scrawl.db)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.docID = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.createMode {
		return createDocument(cfg)
	}

	if cfg.docID != "" {
		return showDocument(cfg)
	}

	printHelp(os.Stderr, version)
	return 0
}

// openStore resolves the database path and opens the SQLite store.
func openStore(cfg config) (*store.SqliteStore, error) {
	path := cfg.dbPath
	if path == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		path = filepath.Join(dir, "scrawl.db")
	}
	return store.OpenSqlite(path, 0)
}

// createDocument makes a new document, seeded from the template when given,
// and prints its id.
func createDocument(cfg config) int {
	tpl := &template.Blank
	if cfg.templateFile != "" {
		loaded, err := template.LoadFile(cfg.templateFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		tpl = loaded
	}

	title := cfg.title
	if title == "" {
		title = tpl.Title
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer st.Close()

	doc, err := st.Create(context.Background(), title, tpl.Materialize())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("created document %s (%q, %d elements)\n", doc.ID, doc.Title, len(doc.Elements))
	return 0
}

// showDocument prints a summary of the document with the given id.
func showDocument(cfg config) int {
	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer st.Close()

	doc, err := st.Get(context.Background(), cfg.docID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	printDocument(os.Stdout, doc)
	return 0
}

// printDocument writes a human-readable document summary.
func printDocument(w *os.File, doc *core.Document) {
	fmt.Fprintf(w, "%s  %q\n", doc.ID, doc.Title)
	fmt.Fprintf(w, "version %d, %d elements, updated %s\n", doc.AckVersion, len(doc.Elements), doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	for _, el := range doc.Elements {
		box := el.BoundingBox()
		fmt.Fprintf(w, "  %-10s %s  at (%g, %g) size %gx%g\n", el.Type, el.ID, box.X, box.Y, box.Width, box.Height)
	}
	for _, p := range doc.Presences {
		fmt.Fprintf(w, "  online: %s at (%g, %g)\n", p.Username, p.Cursor.X, p.Cursor.Y)
	}
}
