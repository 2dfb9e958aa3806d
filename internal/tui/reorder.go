package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// ReorderModel is a full-screen list in which the operator moves books into
// series order. Confirming assigns positions 1..n in the displayed order.
type ReorderModel struct {
	series    string
	books     []epubseries.Book
	cursor    int
	moved     int // index of the last moved book, -1 if none
	keys      KeyMap
	confirmed bool
	cancelled bool
}

// NewReorderModel creates a model showing books in their given order.
func NewReorderModel(series string, books []epubseries.Book) ReorderModel {
	list := make([]epubseries.Book, len(books))
	copy(list, books)
	return ReorderModel{
		series: series,
		books:  list,
		moved:  -1,
		keys:   DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m ReorderModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReorderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.MoveUp):
		if m.cursor > 0 {
			m.swap(m.cursor, m.cursor-1)
			m.cursor--
			m.moved = m.cursor
		}
	case key.Matches(keyMsg, m.keys.MoveDown):
		if m.cursor < len(m.books)-1 {
			m.swap(m.cursor, m.cursor+1)
			m.cursor++
			m.moved = m.cursor
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.books)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit), key.Matches(keyMsg, m.keys.Back):
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *ReorderModel) swap(i, j int) {
	books := make([]epubseries.Book, len(m.books))
	copy(books, m.books)
	books[i], books[j] = books[j], books[i]
	m.books = books
}

// View implements tea.Model.
func (m ReorderModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Order series: " + m.series))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d book(s); positions are assigned top to bottom", len(m.books))))
	b.WriteString("\n")

	for i, book := range m.books {
		cursor := "  "
		style := UnselectedStyle
		if i == m.cursor {
			cursor = SymbolCursor + " "
			style = SelectedStyle
		}
		if i == m.moved {
			style = MovedStyle
		}
		b.WriteString(cursor)
		b.WriteString(IndexStyle.Render(fmt.Sprintf("%d.", i+1)))
		b.WriteString(" ")
		b.WriteString(style.Render(book.Title))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.keys.ReorderHelpText()))
	return b.String()
}

// Books returns the books in the displayed order with positions 1..n
// assigned. It returns nil unless the operator confirmed.
func (m ReorderModel) Books() []epubseries.Book {
	if !m.confirmed {
		return nil
	}
	out := make([]epubseries.Book, len(m.books))
	for i, book := range m.books {
		book.Index = epubseries.IndexOf(i + 1)
		out[i] = book
	}
	return out
}

// Confirmed reports whether the operator accepted the order.
func (m ReorderModel) Confirmed() bool {
	return m.confirmed
}

// Cancelled reports whether the operator quit without confirming.
func (m ReorderModel) Cancelled() bool {
	return m.cancelled
}

// ReorderWidget implements epubseries.Reorderer with a ReorderModel drawn on
// the terminal.
type ReorderWidget struct {
	run func(context.Context, tea.Model) (tea.Model, error)
}

// NewReorderWidget creates a widget that draws on stderr.
func NewReorderWidget() *ReorderWidget {
	return &ReorderWidget{run: Run}
}

// Reorder shows books and returns them in the confirmed order.
// Returns ErrCancelled when the operator quits.
func (w *ReorderWidget) Reorder(ctx context.Context, series string, books []epubseries.Book) ([]epubseries.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, nil
	}

	final, err := w.run(ctx, NewReorderModel(series, books))
	if err != nil {
		return nil, err
	}
	m, ok := final.(ReorderModel)
	if !ok || !m.Confirmed() {
		return nil, ErrCancelled
	}
	return m.Books(), nil
}

var _ epubseries.Reorderer = (*ReorderWidget)(nil)
