// Package home is the dashboard shown after sign-in.
package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/screens/chat"
	"github.com/abhisek/placeprep/internal/screens/history"
	"github.com/abhisek/placeprep/internal/screens/picker"
	roadmapscreen "github.com/abhisek/placeprep/internal/screens/roadmap"
	"github.com/abhisek/placeprep/internal/screens/reviewqueue"
	"github.com/abhisek/placeprep/internal/store"
	"github.com/abhisek/placeprep/internal/ui/components"
)

type pendingCountMsg struct {
	Count int
}

// HomeScreen is the main menu with a progress summary.
type HomeScreen struct {
	env    *screen.Env
	menu   components.Menu
	stats  stats
	banner string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	if env.Mentor == nil {
		h.banner = "Set an LLM API key to talk to the mentor (see placeprep --help)"
	}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	env := h.env
	return []components.MenuItem{
		{Label: "TAKE A QUIZ", Action: func() tea.Cmd {
			return router.Push(picker.New(env))
		}},
		{Label: "ROADMAP", Action: func() tea.Cmd {
			return router.Push(roadmapscreen.New(env))
		}},
		{Label: "RESULTS", Action: func() tea.Cmd {
			return router.Push(history.New(env))
		}},
		{Label: "MENTOR", Disabled: env.Mentor == nil, Action: func() tea.Cmd {
			return router.Push(chat.New(env))
		}},
		{Label: "REVIEW QUEUE", Disabled: !env.Session.IsAdmin() || env.Pending == nil, Action: func() tea.Cmd {
			return router.Push(reviewqueue.New(env))
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return tea.Batch(h.env.LoadStandings(), h.loadPending())
}

func (h *HomeScreen) loadPending() tea.Cmd {
	if !h.env.Session.IsAdmin() || h.env.Pending == nil {
		return nil
	}
	repo := h.env.Pending
	return func() tea.Msg {
		items, err := repo.List(context.Background(), store.StatusPending)
		if err != nil {
			return pendingCountMsg{}
		}
		return pendingCountMsg{Count: len(items)}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StandingsLoadedMsg:
		if msg.Err != nil {
			h.env.Log().Warn("load standings failed", "err", msg.Err)
		}
		h.applyStandings(msg.Standings)
		return h, nil
	case pendingCountMsg:
		h.stats.pending = msg.Count
		return h, nil
	case router.ResumedMsg:
		return h, h.Init()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) applyStandings(st roadmap.Standings) {
	h.stats.loaded = true
	h.stats.attempts = 0
	for _, s := range st {
		h.stats.attempts += s.Attempts
	}
	h.stats.passed, h.stats.total = 0, 0
	if h.env.Roadmap == nil {
		return
	}
	for _, ms := range h.env.Roadmap.States(st) {
		h.stats.total++
		if ms.State == roadmap.StatePassed {
			h.stats.passed++
		}
	}
}

// Stats returns modules passed, modules total and total attempts.
func (h *HomeScreen) Stats() (passed, total, attempts int) {
	return h.stats.passed, h.stats.total, h.stats.attempts
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes header and footer; add them back to judge the terminal.
	compact := height+8 < 30 || width < 100
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.stats, cw, compact),
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menu, cw))
	} else {
		sections = append(sections, renderMenu(h.menu, cw))
	}
	if h.banner != "" {
		sections = append(sections, renderBanner(h.banner, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
