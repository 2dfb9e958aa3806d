package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// InteractiveApprover asks on the terminal before an existing series is
// replaced. Answers: y (replace), N (keep, the default), a (replace this and
// all remaining books), skip.
type InteractiveApprover struct {
	prompter *Prompter
}

// NewInteractiveApprover creates an InteractiveApprover on p.
func NewInteractiveApprover(p *Prompter) *InteractiveApprover {
	return &InteractiveApprover{prompter: p}
}

// ConfirmReplace prompts for one book.
func (a *InteractiveApprover) ConfirmReplace(ctx context.Context, req epubseries.ReplaceRequest) (epubseries.Decision, error) {
	out := a.prompter.Output()
	fmt.Fprintf(out, "Note: %s already has series: %s\n", req.Book, req.Existing)
	fmt.Fprintf(out, "Replace with '%s'? [y/N/a/skip]: ", req.Proposed)

	answer, err := a.prompter.readLine(ctx)
	if err != nil {
		return epubseries.DecisionDecline, err
	}
	return ParseDecision(answer), nil
}

// ParseDecision maps a typed answer to a Decision. Anything unrecognized,
// including an empty answer, declines.
func ParseDecision(answer string) epubseries.Decision {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return epubseries.DecisionReplace
	case "a", "all":
		return epubseries.DecisionReplaceAll
	case "skip", "s":
		return epubseries.DecisionSkip
	default:
		return epubseries.DecisionDecline
	}
}

var _ epubseries.Approver = (*InteractiveApprover)(nil)
