// Package router keeps the stack of TUI screens. Screens never touch the
// stack directly; they return the Push, Replace, Back and Home commands and
// the app model feeds the resulting messages back through Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/screen"
)

type (
	// PushScreenMsg opens Screen on top of the current one.
	PushScreenMsg struct{ Screen screen.Screen }

	// ReplaceScreenMsg swaps the top screen, e.g. quiz for result.
	ReplaceScreenMsg struct{ Screen screen.Screen }

	// PopScreenMsg closes the top screen.
	PopScreenMsg struct{}

	// PopToRootMsg closes everything above the home screen.
	PopToRootMsg struct{}

	// ResumedMsg reaches a screen when the screens above it close, so it
	// can reload anything they may have changed.
	ResumedMsg struct{}
)

// Router is a stack of screens. The bottom screen is never removed.
type Router struct {
	stack []screen.Screen
}

// New creates a router showing root.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Active is the screen on top.
func (r *Router) Active() screen.Screen { return r.stack[len(r.stack)-1] }

// Depth is the number of open screens.
func (r *Router) Depth() int { return len(r.stack) }

// Trail lists the titles of the open screens, bottom first.
func (r *Router) Trail() []string {
	out := make([]string, len(r.stack))
	for i, s := range r.stack {
		out[i] = s.Title()
	}
	return out
}

// Update applies navigation messages and hands anything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		r.stack = append(r.stack, msg.Screen)
		return msg.Screen.Init()
	case ReplaceScreenMsg:
		r.stack[len(r.stack)-1] = msg.Screen
		return msg.Screen.Init()
	case PopScreenMsg:
		return r.truncate(len(r.stack) - 1)
	case PopToRootMsg:
		return r.truncate(1)
	}

	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// truncate keeps the bottom n screens and resumes the new top.
func (r *Router) truncate(n int) tea.Cmd {
	n = max(n, 1)
	if n >= len(r.stack) {
		return nil
	}
	clear(r.stack[n:])
	r.stack = r.stack[:n]
	return func() tea.Msg { return ResumedMsg{} }
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}

// Push returns a command that opens s.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

// Replace returns a command that swaps the active screen for s.
func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

// Back returns a command that closes the active screen.
func Back() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}

// Home returns a command that returns to the root screen.
func Home() tea.Cmd {
	return func() tea.Msg { return PopToRootMsg{} }
}
