package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ToggleItem is one on/off switch in a ToggleList.
type ToggleItem struct {
	Key         string
	Label       string
	Description string
	On          bool
}

// ToggleList is a checklist of independent switches.
type ToggleList struct {
	title     string
	items     []ToggleItem
	cursor    int
	keyMap    toggleKeyMap
	styles    selectorStyles
	submitted bool
	cancelled bool
}

type toggleKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func defaultToggleKeyMap() toggleKeyMap {
	return toggleKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// NewToggleList creates a checklist with the items' initial states.
func NewToggleList(title string, items ...ToggleItem) ToggleList {
	list := make([]ToggleItem, len(items))
	copy(list, items)
	return ToggleList{
		title:  title,
		items:  list,
		keyMap: defaultToggleKeyMap(),
		styles: defaultSelectorStyles(),
	}
}

// Init implements tea.Model.
func (l ToggleList) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (l ToggleList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch {
	case key.Matches(keyMsg, l.keyMap.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, l.keyMap.Down):
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, l.keyMap.Toggle):
		if len(l.items) > 0 {
			items := make([]ToggleItem, len(l.items))
			copy(items, l.items)
			items[l.cursor].On = !items[l.cursor].On
			l.items = items
		}
	case key.Matches(keyMsg, l.keyMap.Submit):
		l.submitted = true
		return l, tea.Quit
	case key.Matches(keyMsg, l.keyMap.Quit):
		l.cancelled = true
		return l, tea.Quit
	}
	return l, nil
}

// View implements tea.Model.
func (l ToggleList) View() string {
	var b strings.Builder

	b.WriteString(l.styles.Title.Render(l.title))
	b.WriteString("\n\n")

	for i, item := range l.items {
		cursor := "  "
		style := l.styles.Unselected
		if i == l.cursor {
			cursor = "› "
			style = l.styles.Selected
		}
		box := "[ ]"
		if item.On {
			box = "[x]"
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(box + " " + item.Label))
		b.WriteString("\n")
		if item.Description != "" {
			b.WriteString(l.styles.Description.Render(item.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString(l.styles.Help.Render("\n↑/↓ navigate • space toggle • enter continue • esc cancel"))
	return b.String()
}

// On reports the state of the item with the given key.
func (l ToggleList) On(itemKey string) bool {
	for _, item := range l.items {
		if item.Key == itemKey {
			return item.On
		}
	}
	return false
}

// Submitted returns true if the list was confirmed.
func (l ToggleList) Submitted() bool {
	return l.submitted
}

// Cancelled returns true if the user quit the list.
func (l ToggleList) Cancelled() bool {
	return l.cancelled
}
