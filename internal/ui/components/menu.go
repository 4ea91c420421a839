package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/ui/theme"
)

// MenuItem is one row of a Menu.
type MenuItem struct {
	Label string

	// Detail is rendered dimmed after the label: lock reasons, best score.
	Detail string

	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor that skips disabled rows and
// wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.first()
	return m
}

// Select moves the cursor to i when that row exists and is enabled.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

// Current is the item under the cursor.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) || m.Items[m.Selected].Disabled {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "home", "g":
		m.Selected = m.first()
	case "end", "G":
		for i := len(m.Items) - 1; i >= 0; i-- {
			if m.Select(i) {
				break
			}
		}
	case "enter":
		if item, ok := m.Current(); ok && item.Action != nil {
			return m, item.Action()
		}
	}
	return m, nil
}

// step moves the cursor dir rows, skipping disabled ones and wrapping. With
// no enabled row the cursor stays put.
func (m *Menu) step(dir int) {
	n := len(m.Items)
	for i := 1; i < n; i++ {
		if m.Select(((m.Selected+dir*i)%n + n) % n) {
			return
		}
	}
}

func (m Menu) first() int {
	for i, item := range m.Items {
		if !item.Disabled {
			return i
		}
	}
	return 0
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(theme.Disabled.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		if item.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(item.Detail))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
