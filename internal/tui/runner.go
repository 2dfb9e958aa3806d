package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// ErrCancelled is returned when the operator quits a widget without confirming.
// It matches epubseries.ErrApprovalDenied.
var ErrCancelled = fmt.Errorf("cancelled by user: %w", epubseries.ErrApprovalDenied)

// Run draws model full-screen on stderr until it quits, leaving stdout free
// for the run report. The program stops when ctx is cancelled.
func Run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return final, ctxErr
		}
		return final, fmt.Errorf("terminal UI failed: %w", err)
	}
	return final, nil
}
