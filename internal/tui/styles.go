package tui

import "github.com/charmbracelet/lipgloss"

// Palette. 256-color codes so the widgets look the same on most terminals.
var (
	ColorPrimary   = lipgloss.Color("39")
	ColorSecondary = lipgloss.Color("245")
	ColorHighlight = lipgloss.Color("214")
	ColorMuted     = lipgloss.Color("240")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorSecondary).MarginBottom(1)
	HelpStyle     = lipgloss.NewStyle().Foreground(ColorMuted).MarginTop(1)

	// BoxStyle frames the run summary on the confirmation screen.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	SelectedStyle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	UnselectedStyle = lipgloss.NewStyle().Foreground(ColorSecondary)

	// MovedStyle marks the book moved by the last keypress in the reorder list.
	MovedStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	// IndexStyle right-aligns series positions ("1.", "12.") in a fixed column.
	IndexStyle = lipgloss.NewStyle().Foreground(ColorMuted).Width(5).Align(lipgloss.Right)
)

// SymbolCursor marks the row under the cursor.
const SymbolCursor = "›"
