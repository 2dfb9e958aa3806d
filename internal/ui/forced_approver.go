package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// ForcedApprover approves every replacement, used with --force.
// In verbose mode each replacement is announced.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
}

func NewForcedApprover(verbose bool) *ForcedApprover {
	return &ForcedApprover{verbose: verbose, output: os.Stderr}
}

func (a *ForcedApprover) ConfirmReplace(ctx context.Context, req epubseries.ReplaceRequest) (epubseries.Decision, error) {
	if err := ctx.Err(); err != nil {
		return epubseries.DecisionDecline, err
	}
	if a.verbose {
		fmt.Fprintf(a.output, "Replacing series '%s' on %s\n", req.Existing, req.Book)
	}
	return epubseries.DecisionReplace, nil
}

// DecliningApprover declines every replacement. It stands in for the
// operator when nobody is at the terminal.
type DecliningApprover struct{}

func (DecliningApprover) ConfirmReplace(ctx context.Context, req epubseries.ReplaceRequest) (epubseries.Decision, error) {
	if err := ctx.Err(); err != nil {
		return epubseries.DecisionDecline, err
	}
	return epubseries.DecisionDecline, nil
}

var (
	_ epubseries.Approver = (*ForcedApprover)(nil)
	_ epubseries.Approver = DecliningApprover{}
)
