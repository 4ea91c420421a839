// Package app is the root Bubble Tea model: it owns the router, the frame
// and the keys that work on every screen.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/screens/home"
	"github.com/abhisek/placeprep/internal/ui/layout"
)

var (
	backHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}, {Key: "Ctrl+C", Description: "Quit"}}
	rootHints = []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
)

// AppModel is the root model.
type AppModel struct {
	env    *screen.Env
	router *router.Router

	width, height int

	// warning is set by a first Esc on a guarded screen; the next Esc
	// leaves, any other key clears it.
	warning string
}

func newAppModel(env *screen.Env) AppModel {
	return AppModel{env: env, router: router.New(home.New(env))}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m.back()
		}
		m.warning = ""
	}
	return m, m.router.Update(msg)
}

func (m AppModel) back() (tea.Model, tea.Cmd) {
	if m.router.Depth() == 1 {
		return m, nil
	}
	if g, ok := m.router.Active().(screen.LeaveGuard); ok && m.warning == "" {
		if w := g.LeaveWarning(); w != "" {
			m.warning = w
			return m, nil
		}
	}
	m.warning = ""
	return m, router.Back()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	sess := m.env.Session
	header := layout.RenderHeader(m.router.Trail(), layout.Identity{Name: sess.Name, Admin: sess.IsAdmin()}, m.width)

	hints := rootHints
	if kh, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = kh.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = backHints
	}
	footer := layout.RenderFooter(hints, m.warning, m.width)

	body := m.router.View(m.width, max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0))
	return layout.RenderFrame(header, body, footer, m.width, m.height)
}

// Run starts the TUI and blocks until it exits.
func Run(env *screen.Env) error {
	if _, err := tea.NewProgram(newAppModel(env)).Run(); err != nil {
		env.Log().Error("tui exited with error", "err", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
