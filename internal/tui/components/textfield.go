package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TeoZler/epub-series-metadata-editor/internal/tui"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(tui.ColorSecondary)
	inputStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusedStyle = lipgloss.NewStyle().Foreground(tui.ColorPrimary)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle    = lipgloss.NewStyle().Foreground(tui.ColorMuted)
)

// ErrFieldRequired is returned when a required field is empty.
var ErrFieldRequired = fieldError("this field is required")

type fieldError string

func (e fieldError) Error() string { return string(e) }

// TextField is one labeled input of a Form. A field with a PathCompleter
// completes its value on Tab.
type TextField struct {
	label     string
	hint      string
	input     textinput.Model
	focused   bool
	required  bool
	validator func(string) error
	completer *PathCompleter
	err       error
}

// NewTextField creates an empty field showing placeholder.
func NewTextField(label, placeholder string) TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	ti.Width = 56
	return TextField{label: label, input: ti}
}

// WithRequired marks the field as required.
func (t TextField) WithRequired(required bool) TextField {
	t.required = required
	return t
}

// WithValidator sets a function run on every change and before moving on.
func (t TextField) WithValidator(fn func(string) error) TextField {
	t.validator = fn
	return t
}

// WithValue sets the initial value.
func (t TextField) WithValue(value string) TextField {
	t.input.SetValue(value)
	return t
}

// WithCompleter enables Tab completion of filesystem paths.
func (t TextField) WithCompleter(c *PathCompleter) TextField {
	t.completer = c
	return t
}

// WithHint sets a line shown under the input, e.g. what an empty value means.
func (t TextField) WithHint(hint string) TextField {
	t.hint = hint
	return t
}

// Completes reports whether Tab completes this field's value.
func (t TextField) Completes() bool {
	return t.completer != nil
}

// Focus focuses the field.
func (t *TextField) Focus() tea.Cmd {
	t.focused = true
	return t.input.Focus()
}

// Blur removes focus from the field.
func (t *TextField) Blur() {
	t.focused = false
	t.input.Blur()
}

// Update handles a message for the focused field.
func (t TextField) Update(msg tea.Msg) (TextField, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && t.completer != nil {
		if keyMsg.Type == tea.KeyTab {
			t.input.SetValue(t.completer.Next(t.input.Value()))
			t.input.CursorEnd()
			return t, nil
		}
		t.completer.Reset()
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	if t.validator != nil {
		t.err = t.validator(t.input.Value())
	}
	return t, cmd
}

// View renders label, input, hint and the current error.
func (t TextField) View() string {
	label := t.label
	if t.required {
		label += errorStyle.Render(" *")
	}

	style := inputStyle
	if t.focused {
		style = focusedStyle
	}

	lines := []string{labelStyle.Render(label), style.Render(t.input.View())}
	if t.hint != "" {
		lines = append(lines, hintStyle.Render(t.hint))
	}
	if t.err != nil {
		lines = append(lines, errorStyle.Render(t.err.Error()))
	}
	return strings.Join(lines, "\n")
}

// Value returns the current value.
func (t TextField) Value() string {
	return t.input.Value()
}

// SetValue replaces the value.
func (t *TextField) SetValue(v string) {
	t.input.SetValue(v)
}

// Error returns the last validation error.
func (t TextField) Error() error {
	return t.err
}

// Validate checks the value and records the result for View.
func (t *TextField) Validate() error {
	t.err = nil
	switch {
	case t.required && strings.TrimSpace(t.input.Value()) == "":
		t.err = ErrFieldRequired
	case t.validator != nil:
		t.err = t.validator(t.input.Value())
	}
	return t.err
}
