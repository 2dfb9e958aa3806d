package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/TeoZler/epub-series-metadata-editor/internal/cli"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(epubseries.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(epubseries.ExitCodeForError(err))
	}
}
