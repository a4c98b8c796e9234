// ABOUTME: Help display for the scrawl CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for configuration detection.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w: usage patterns, grouped
// flags, examples, and the relevant environment variables.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "scrawl %s — collaborative canvas document store\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  scrawl -create [-template board.yaml]   Create a new document")
	fmt.Fprintln(w, "  scrawl <doc-id>                         Show a document")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -create               Create a new document")
	fmt.Fprintln(w, "  -template <file>      YAML template to seed the new document")
	fmt.Fprintln(w, "  -title <title>        Title for the new document (default: template title)")
	fmt.Fprintln(w, "  -db <path>            Document database (default: $XDG_DATA_HOME/scrawl/scrawl.db)")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  scrawl -create")
	fmt.Fprintln(w, "  scrawl -create -template templates/kanban.yaml")
	fmt.Fprintln(w, "  scrawl -create -title \"Sprint planning\"")
	fmt.Fprintln(w, "  scrawl 01J8ZD2N4P5Q6R7S8T9V0W1X2Y")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  SCRAWL_USERNAME       %s\n", envStatus("SCRAWL_USERNAME"))
	fmt.Fprintf(w, "  SCRAWL_USER_ID        %s\n", envStatus("SCRAWL_USER_ID"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Docs: https://github.com/scrawl-app/scrawl")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
