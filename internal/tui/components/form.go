package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TeoZler/epub-series-metadata-editor/internal/tui"
)

var (
	formNext   = key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next"))
	formPrev   = key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "prev"))
	formSubmit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	formCancel = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
)

// Form collects a few text fields on one screen. Tab moves to the next field
// unless the focused field completes paths; there Tab completes and the
// arrow keys move between fields.
//
// Enter on the last field submits once every field validates.
type Form struct {
	title     string
	fields    []TextField
	focus     int
	submitted bool
	cancelled bool
}

// NewForm creates a form with the given title and fields, focusing the first.
func NewForm(title string, fields ...TextField) Form {
	return Form{title: title, fields: fields}
}

// Init implements tea.Model.
func (f Form) Init() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[0].Focus()
}

// Update implements tea.Model.
func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		completing := msg.Type == tea.KeyTab && f.fields[f.focus].Completes()
		switch {
		case completing:
			// handled by the field below
		case key.Matches(msg, formCancel):
			f.cancelled = true
			return f, tea.Quit
		case key.Matches(msg, formSubmit) && f.focus == len(f.fields)-1:
			if f.validateAll() {
				f.submitted = true
				return f, tea.Quit
			}
			return f, nil
		case key.Matches(msg, formNext), key.Matches(msg, formSubmit):
			return f.move(+1)
		case key.Matches(msg, formPrev):
			return f.move(-1)
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return f, cmd
}

// move shifts focus by delta. Moving forward requires the focused field to
// validate.
func (f Form) move(delta int) (tea.Model, tea.Cmd) {
	if delta > 0 && f.fields[f.focus].Validate() != nil {
		return f, nil
	}
	next := f.focus + delta
	if next < 0 || next >= len(f.fields) {
		return f, nil
	}
	f.fields[f.focus].Blur()
	f.focus = next
	return f, f.fields[f.focus].Focus()
}

func (f *Form) validateAll() bool {
	valid := true
	for i := range f.fields {
		if f.fields[i].Validate() != nil {
			valid = false
		}
	}
	return valid
}

// View implements tea.Model.
func (f Form) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(f.title))
	b.WriteString("\n\n")

	views := make([]string, len(f.fields))
	for i, field := range f.fields {
		views[i] = field.View()
	}
	b.WriteString(strings.Join(views, "\n\n"))

	help := "tab/↓ next • shift+tab/↑ prev • enter submit • esc cancel"
	if len(f.fields) > 0 && f.fields[f.focus].Completes() {
		help = "tab complete path • ↓ next • ↑ prev • enter submit • esc cancel"
	}
	b.WriteString("\n")
	b.WriteString(tui.HelpStyle.Render(help))
	return b.String()
}

// Submitted reports whether the form was submitted.
func (f Form) Submitted() bool { return f.submitted }

// Cancelled reports whether the form was left with esc.
func (f Form) Cancelled() bool { return f.cancelled }

// Field returns the field at idx, or nil.
func (f Form) Field(idx int) *TextField {
	if idx < 0 || idx >= len(f.fields) {
		return nil
	}
	return &f.fields[idx]
}

// FieldValue returns the value of the field at idx.
func (f Form) FieldValue(idx int) string {
	if field := f.Field(idx); field != nil {
		return field.Value()
	}
	return ""
}
