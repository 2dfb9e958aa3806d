package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TeoZler/epub-series-metadata-editor/internal/tui"
)

// Option is one choice of a Selector.
type Option struct {
	Label       string
	Description string
	Value       string
}

var descriptionStyle = lipgloss.NewStyle().Foreground(tui.ColorMuted).MarginLeft(4)

// Selector picks one of a short list of options, such as the policy for
// books that already declare a series. An optional summary is shown boxed
// above the options.
type Selector struct {
	title    string
	summary  string
	options  []Option
	cursor   int
	selected int
	keys     tui.KeyMap

	submitted bool
	cancelled bool
}

// NewSelector creates a selector with the cursor on the first option.
func NewSelector(title string, options []Option) Selector {
	return Selector{
		title:    title,
		options:  options,
		selected: -1,
		keys:     tui.DefaultKeyMap(),
	}
}

// WithDefault places the cursor on the option with the given value. An
// unknown value leaves the cursor where it is.
func (s Selector) WithDefault(value string) Selector {
	for i, opt := range s.options {
		if opt.Value == value {
			s.cursor = i
			return s
		}
	}
	return s
}

// WithSummary shows summary boxed between the title and the options.
func (s Selector) WithSummary(summary string) Selector {
	s.summary = summary
	return s
}

// Init implements tea.Model.
func (s Selector) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch {
	case key.Matches(keyMsg, s.keys.Up):
		s.cursor = max(s.cursor-1, 0)
	case key.Matches(keyMsg, s.keys.Down):
		s.cursor = min(s.cursor+1, len(s.options)-1)
	case key.Matches(keyMsg, s.keys.Select):
		if len(s.options) == 0 {
			return s, nil
		}
		s.selected = s.cursor
		s.submitted = true
		return s, tea.Quit
	case key.Matches(keyMsg, s.keys.Quit), key.Matches(keyMsg, s.keys.Back):
		s.cancelled = true
		return s, tea.Quit
	}
	return s, nil
}

// View implements tea.Model.
func (s Selector) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render(s.title))
	b.WriteString("\n\n")
	if s.summary != "" {
		b.WriteString(tui.BoxStyle.Render(s.summary))
		b.WriteString("\n\n")
	}

	for i, opt := range s.options {
		prefix, style, mark := "  ", tui.UnselectedStyle, "○"
		if i == s.cursor {
			prefix, style, mark = tui.SymbolCursor+" ", tui.SelectedStyle, "●"
		}
		b.WriteString(prefix + style.Render(mark+" "+opt.Label) + "\n")
		if opt.Description != "" {
			b.WriteString(descriptionStyle.Render(opt.Description) + "\n")
		}
	}

	b.WriteString(tui.HelpStyle.Render(s.keys.HelpText()))
	return b.String()
}

// SelectedOption returns the chosen option, or nil before a selection.
func (s Selector) SelectedOption() *Option {
	if s.selected < 0 || s.selected >= len(s.options) {
		return nil
	}
	return &s.options[s.selected]
}

// Cancelled reports whether the selector was left without choosing.
func (s Selector) Cancelled() bool { return s.cancelled }

// Submitted reports whether an option was chosen.
func (s Selector) Submitted() bool { return s.submitted }

// Value returns the value of the chosen option, or "".
func (s Selector) Value() string {
	if opt := s.SelectedOption(); opt != nil {
		return opt.Value
	}
	return ""
}
