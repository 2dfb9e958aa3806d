package epubseries

import (
	"fmt"
	"strings"
)

// Policy decides what happens when a book already declares a series.
// It is passed by value into each per-file call and may only escalate
// from PolicyAsk to PolicyForceAll during a run.
type Policy int

const (
	// PolicyAsk asks the Approver for every book that already has a series.
	PolicyAsk Policy = iota
	// PolicyForceAll replaces existing series without asking.
	PolicyForceAll
	// PolicySkipExisting leaves books that already have a series untouched.
	PolicySkipExisting
)

func (p Policy) String() string {
	switch p {
	case PolicyAsk:
		return "ask"
	case PolicyForceAll:
		return "force"
	case PolicySkipExisting:
		return "skip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "ask", "force", "skip" and their one-letter forms (i, f, s).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ask", "i", "interactive":
		return PolicyAsk, nil
	case "force", "f", "overwrite":
		return PolicyForceAll, nil
	case "skip", "s", "skip-existing":
		return PolicySkipExisting, nil
	default:
		return PolicyAsk, fmt.Errorf("unknown on-existing policy %q (want ask, force or skip): %w", s, ErrInvalidConfig)
	}
}

// Escalate applies an operator decision to the policy.
// Only DecisionReplaceAll changes it; the change is one-way.
func (p Policy) Escalate(d Decision) Policy {
	if p == PolicyAsk && d == DecisionReplaceAll {
		return PolicyForceAll
	}
	return p
}
