// Package picker lists the question sets a learner can attempt.
package picker

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/screens/quiz"
	"github.com/abhisek/placeprep/internal/ui/components"
	"github.com/abhisek/placeprep/internal/ui/layout"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

// PickerScreen shows every question set with its lock state.
type PickerScreen struct {
	env       *screen.Env
	standings roadmap.Standings
	menu      components.Menu
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// New creates a picker over env's bank.
func New(env *screen.Env) *PickerScreen {
	return &PickerScreen{env: env, standings: roadmap.Standings{}}
}

func (s *PickerScreen) Init() tea.Cmd {
	return s.env.LoadStandings()
}

func (s *PickerScreen) Title() string {
	return "Choose a quiz"
}

func (s *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StandingsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		if msg.Standings != nil {
			s.standings = msg.Standings
		}
		s.rebuild()
		return s, nil
	case router.ResumedMsg:
		return s, s.env.LoadStandings()
	}

	if !s.loaded {
		return s, nil
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// rebuild regenerates the menu, keeping the selection where possible.
func (s *PickerScreen) rebuild() {
	prev := s.menu.Selected
	items := make([]components.MenuItem, 0, s.env.Bank.Len())
	for _, set := range s.env.Bank.Sets() {
		items = append(items, s.item(set))
	}
	s.menu = components.NewMenu(items)
	s.menu.Select(prev)
}

func (s *PickerScreen) item(set questionbank.Set) components.MenuItem {
	env, st := s.env, s.standings
	item := components.MenuItem{
		Label: fmt.Sprintf("%-28s %2d questions", set.Title, len(set.Questions)),
		Action: func() tea.Cmd {
			return router.Push(quiz.New(env, set, st))
		},
	}

	if lock := s.lockReason(set.ID); lock != "" {
		item.Disabled = true
		item.Detail = "🔒 " + lock
		return item
	}
	if len(set.Questions) == 0 {
		item.Disabled = true
		item.Detail = "empty"
		return item
	}

	switch standing := st[set.ID]; {
	case standing.Passed:
		item.Detail = fmt.Sprintf("✓ passed · best %d%%", standing.BestScore)
	case standing.Attempts > 0:
		item.Detail = fmt.Sprintf("best %d%% · %d attempts", standing.BestScore, standing.Attempts)
	}
	return item
}

// lockReason names the unmet prerequisites of the module owning setID.
// Sets outside the roadmap are never locked.
func (s *PickerScreen) lockReason(setID string) string {
	rm := s.env.Roadmap
	if rm == nil {
		return ""
	}
	m, ok := rm.ForSet(setID)
	if !ok || rm.Unlocked(m.ID, s.standings) {
		return ""
	}
	var missing []string
	for _, p := range m.Prerequisites {
		pm, ok := rm.Module(p)
		if ok && !s.standings[pm.SetID].Passed {
			missing = append(missing, pm.Title)
		}
	}
	return "pass " + strings.Join(missing, ", ")
}

// Items exposes the current menu entries.
func (s *PickerScreen) Items() []components.MenuItem {
	return s.menu.Items
}

func (s *PickerScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render("\n\nLoading…")
	}
	if len(s.menu.Items) == 0 {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).Render("\n\nThe question bank is empty.")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.errMsg != "" {
		b.WriteString(theme.Notice.Render("Progress unavailable: "+s.errMsg) + "\n\n")
	}
	b.WriteString(s.menu.View())
	return lipgloss.NewStyle().Padding(0, 4).Render(b.String())
}
