package tui

import (
	"os"

	"golang.org/x/term"

	"github.com/TeoZler/epub-series-metadata-editor/internal/config"
)

// Mode represents the interaction mode for epubseries.
type Mode int

const (
	// ModeNonInteractive is used for scripts, cron jobs and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// DetectMode determines whether epubseries may prompt and draw full-screen widgets.
//
// Returns ModeNonInteractive if:
//   - EPUBSERIES_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stdin is not a terminal (piped input)
//   - stderr is not a terminal (prompts and widgets are drawn there)
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv(config.EnvNonInteractive) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
