package epubseries

import "context"

// Decision is the operator's answer when a book already declares a series.
type Decision int

const (
	// DecisionDecline leaves this book untouched (the default answer).
	DecisionDecline Decision = iota
	// DecisionReplace replaces the series on this book only.
	DecisionReplace
	// DecisionReplaceAll replaces this book and every remaining one without asking.
	DecisionReplaceAll
	// DecisionSkip leaves this book untouched.
	DecisionSkip
)

// Replaces reports whether the decision allows the patch to proceed.
func (d Decision) Replaces() bool {
	return d == DecisionReplace || d == DecisionReplaceAll
}

// ReplaceRequest describes a pending replacement shown to the operator.
type ReplaceRequest struct {
	Book     string // path of the archive
	Existing string // series name currently declared
	Proposed Series // series about to be written
}

// Approver handles operator interaction before an existing series is replaced.
//
// Implementations:
//   - InteractiveApprover: prompts on the terminal with y/N/a/skip
//   - ForcedApprover: approves every request
//   - DecliningApprover: declines every request (non-interactive runs)
type Approver interface {
	// ConfirmReplace asks whether the existing series may be replaced.
	ConfirmReplace(ctx context.Context, req ReplaceRequest) (Decision, error)
}
