// Package screen defines what the router stacks and the environment every
// screen is built from.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body; the app draws header and footer around it.
	View(width, height int) string

	// Title names the screen in the header trail.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// LeaveGuard is implemented by screens that hold unsaved work. A non-empty
// warning makes the first Esc show it; a second Esc leaves.
type LeaveGuard interface {
	LeaveWarning() string
}
