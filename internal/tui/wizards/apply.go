package wizards

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TeoZler/epub-series-metadata-editor/internal/tui"
	"github.com/TeoZler/epub-series-metadata-editor/internal/tui/components"
	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// ApplyAnswers holds everything the apply wizard collects.
type ApplyAnswers struct {
	Path string
	// Series is empty when each book's folder name should be used.
	Series    string
	Index     *epubseries.Index
	Recursive bool
	Legacy    bool
	DryRun    bool
	Backup    bool
	Policy    epubseries.Policy
}

// Vocabularies returns the vocabularies to write: structured always, legacy
// when requested.
func (a ApplyAnswers) Vocabularies() epubseries.Vocabularies {
	return epubseries.Vocabularies{Structured: true, Legacy: a.Legacy}
}

// Summary renders the answers for the confirmation step.
func (a ApplyAnswers) Summary() string {
	series := a.Series
	if series == "" {
		series = "(folder name of each book)"
	}
	index := "(none)"
	if a.Index != nil {
		index = a.Index.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Path:        %s\n", a.Path)
	fmt.Fprintf(&b, "Recursive:   %s\n", yesNo(a.Recursive))
	fmt.Fprintf(&b, "Series:      %s\n", series)
	fmt.Fprintf(&b, "Index:       %s\n", index)
	fmt.Fprintf(&b, "Tags:        %s\n", a.Vocabularies())
	fmt.Fprintf(&b, "On existing: %s\n", a.Policy)
	fmt.Fprintf(&b, "Dry run:     %s\n", yesNo(a.DryRun))
	fmt.Fprintf(&b, "Backup:      %s", yesNo(a.Backup))
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

const (
	fieldPath = iota
	fieldSeries
	fieldIndex
)

const (
	toggleRecursive = "recursive"
	toggleLegacy    = "legacy"
	toggleDryRun    = "dry-run"
	toggleBackup    = "backup"
)

// ApplyWizard walks the operator through one apply run in four screens:
// path and series, options, on-existing policy, confirmation.
type ApplyWizard struct {
	defaults ApplyAnswers
	run      func(context.Context, tea.Model) (tea.Model, error)
}

// NewApplyWizard creates a wizard whose fields start at defaults.
func NewApplyWizard(defaults ApplyAnswers) *ApplyWizard {
	return &ApplyWizard{defaults: defaults, run: tui.Run}
}

// Run shows the screens in order. Quitting any screen, or choosing Cancel
// on the last one, returns tui.ErrCancelled.
func (w *ApplyWizard) Run(ctx context.Context) (ApplyAnswers, error) {
	answers := w.defaults

	model, err := w.run(ctx, w.newForm())
	if err != nil {
		return answers, err
	}
	form, ok := model.(components.Form)
	if !ok || !form.Submitted() {
		return answers, tui.ErrCancelled
	}
	if err := answers.applyForm(form); err != nil {
		return answers, err
	}

	model, err = w.run(ctx, w.newToggles())
	if err != nil {
		return answers, err
	}
	toggles, ok := model.(components.ToggleList)
	if !ok || !toggles.Submitted() {
		return answers, tui.ErrCancelled
	}
	answers.Recursive = toggles.On(toggleRecursive)
	answers.Legacy = toggles.On(toggleLegacy)
	answers.DryRun = toggles.On(toggleDryRun)
	answers.Backup = toggles.On(toggleBackup)

	model, err = w.run(ctx, w.newPolicySelector())
	if err != nil {
		return answers, err
	}
	mode, ok := model.(components.Selector)
	if !ok || !mode.Submitted() {
		return answers, tui.ErrCancelled
	}
	if answers.Policy, err = epubseries.ParsePolicy(mode.Value()); err != nil {
		return answers, err
	}

	model, err = w.run(ctx, newConfirm(answers))
	if err != nil {
		return answers, err
	}
	confirm, ok := model.(components.Selector)
	if !ok || !confirm.Submitted() || confirm.Value() != "apply" {
		return answers, tui.ErrCancelled
	}
	return answers, nil
}

func (w *ApplyWizard) newForm() components.Form {
	path := components.NewTextField("Book or folder", ".").
		WithRequired(true).
		WithValue(w.defaults.Path).
		WithCompleter(components.NewPathCompleter(epubseries.BookExt)).
		WithValidator(validatePath)

	series := components.NewTextField("Series name", "").
		WithValue(w.defaults.Series).
		WithHint("Leave empty to use each book's folder name")

	index := components.NewTextField("Series index", "").
		WithValidator(validateIndex).
		WithHint("Leave empty to write no position; 2, 2.5 and 5/2 are accepted")
	if w.defaults.Index != nil {
		index = index.WithValue(w.defaults.Index.String())
	}

	return components.NewForm("epubseries - Apply series", path, series, index)
}

func (w *ApplyWizard) newToggles() components.ToggleList {
	return components.NewToggleList("Options",
		components.ToggleItem{Key: toggleRecursive, Label: "Include subfolders", On: w.defaults.Recursive},
		components.ToggleItem{Key: toggleLegacy, Label: "Also write calibre:series tags",
			Description: "For readers that only understand the legacy tags", On: w.defaults.Legacy},
		components.ToggleItem{Key: toggleDryRun, Label: "Dry run", Description: "Report what would change, write nothing", On: w.defaults.DryRun},
		components.ToggleItem{Key: toggleBackup, Label: "Keep a backup of each book", On: w.defaults.Backup},
	)
}

func (w *ApplyWizard) newPolicySelector() components.Selector {
	return components.NewSelector("When a book already has a series", []components.Option{
		{Label: "Ask for each book", Description: "y, N, a (all remaining) or skip", Value: epubseries.PolicyAsk.String()},
		{Label: "Replace", Description: "Overwrite every existing series", Value: epubseries.PolicyForceAll.String()},
		{Label: "Skip", Description: "Leave books with a series untouched", Value: epubseries.PolicySkipExisting.String()},
	}).WithDefault(w.defaults.Policy.String())
}

func newConfirm(a ApplyAnswers) components.Selector {
	return components.NewSelector("Ready", []components.Option{
		{Label: "Apply", Value: "apply"},
		{Label: "Cancel", Value: "cancel"},
	}).WithSummary(a.Summary())
}

func (a *ApplyAnswers) applyForm(form components.Form) error {
	a.Path = strings.TrimSpace(form.FieldValue(fieldPath))
	a.Series = strings.TrimSpace(form.FieldValue(fieldSeries))
	a.Index = nil

	raw := strings.TrimSpace(form.FieldValue(fieldIndex))
	if raw == "" {
		return nil
	}
	idx, err := epubseries.ParseIndex(raw)
	if err != nil {
		return err
	}
	a.Index = &idx
	return nil
}

func validatePath(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if _, err := os.Stat(v); err != nil {
		return fmt.Errorf("%s does not exist", v)
	}
	return nil
}

func validateIndex(v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if _, err := epubseries.ParseIndex(v); err != nil {
		return fmt.Errorf("not a valid index: %s", v)
	}
	return nil
}
