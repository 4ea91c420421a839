// Package roadmap shows the learner's path through the module DAG.
package roadmap

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	rm "github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/screens/quiz"
	"github.com/abhisek/placeprep/internal/ui/layout"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

// RoadmapScreen lists modules in dependency order with their states.
type RoadmapScreen struct {
	env          *screen.Env
	standings    rm.Standings
	rows         []rm.ModuleState
	cursor       int
	scrollOffset int
	loaded       bool
	notice       string
}

var _ screen.Screen = (*RoadmapScreen)(nil)
var _ screen.KeyHintProvider = (*RoadmapScreen)(nil)

// New creates the roadmap screen.
func New(env *screen.Env) *RoadmapScreen {
	return &RoadmapScreen{env: env}
}

func (s *RoadmapScreen) Init() tea.Cmd {
	return s.env.LoadStandings()
}

func (s *RoadmapScreen) Title() string {
	return "Roadmap"
}

func (s *RoadmapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start module"},
		{Key: "Esc", Description: "Back"},
	}
}

// Rows returns the module states currently shown.
func (s *RoadmapScreen) Rows() []rm.ModuleState {
	return s.rows
}

func (s *RoadmapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StandingsLoadedMsg:
		s.loaded = true
		s.standings = msg.Standings
		if s.standings == nil {
			s.standings = rm.Standings{}
		}
		if msg.Err != nil {
			s.notice = "Progress unavailable: " + msg.Err.Error()
		}
		if s.env.Roadmap != nil {
			s.rows = s.env.Roadmap.States(s.standings)
		}
		s.cursor = min(s.cursor, max(len(s.rows)-1, 0))
		return s, nil

	case router.ResumedMsg:
		return s, s.env.LoadStandings()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.rows)-1 {
				s.cursor++
			}
		case "enter":
			return s, s.start()
		}
	}
	return s, nil
}

func (s *RoadmapScreen) start() tea.Cmd {
	if s.cursor >= len(s.rows) {
		return nil
	}
	row := s.rows[s.cursor]
	if row.State == rm.StateLocked {
		s.notice = fmt.Sprintf("%s is locked until its prerequisites are passed.", row.Module.Title)
		return nil
	}
	set, ok := s.env.Bank.Set(row.Module.SetID)
	if !ok || len(set.Questions) == 0 {
		s.notice = fmt.Sprintf("No questions available for %s yet.", row.Module.Title)
		return nil
	}
	s.notice = ""
	return router.Push(quiz.New(s.env, set, s.standings))
}

func (s *RoadmapScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Render("\n\nLoading roadmap…")
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).Render("\n\nNo roadmap configured.")
	}

	// Each module takes two lines; reserve two for the notice.
	visible := max((height-2)/2, 1)
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	} else if s.cursor >= s.scrollOffset+visible {
		s.scrollOffset = s.cursor - visible + 1
	}

	var lines []string
	for i := s.scrollOffset; i < len(s.rows) && i < s.scrollOffset+visible; i++ {
		lines = append(lines, s.renderRow(s.rows[i], i == s.cursor, width))
	}
	if s.notice != "" {
		lines = append(lines, "", "  "+theme.Notice.Render(s.notice))
	}
	return strings.Join(lines, "\n")
}

func (s *RoadmapScreen) renderRow(ms rm.ModuleState, selected bool, width int) string {
	icon, c := stateIcon(ms.State)
	prefix := "  "
	if selected {
		prefix = "▸ "
	}

	title := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		title = title.Foreground(theme.Primary).Bold(true)
	}
	if ms.State == rm.StateLocked {
		title = title.Foreground(theme.TextDim)
	}

	status := ms.State.String()
	if ms.Standing.Attempts > 0 {
		status = fmt.Sprintf("%s · best %d%% · %d attempts", status, ms.Standing.BestScore, ms.Standing.Attempts)
	}
	line := prefix + lipgloss.NewStyle().Foreground(c).Render(icon) + " " + title.Render(ms.Module.Title) +
		"  " + theme.Hint.Render(status)

	detail := ""
	if len(ms.Module.Prerequisites) > 0 {
		names := make([]string, 0, len(ms.Module.Prerequisites))
		for _, p := range ms.Module.Prerequisites {
			if m, ok := s.env.Roadmap.Module(p); ok {
				names = append(names, m.Title)
			}
		}
		detail = "    after " + strings.Join(names, ", ")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line + "\n" + theme.Hint.Render(detail))
}

func stateIcon(st rm.State) (string, color.Color) {
	switch st {
	case rm.StatePassed:
		return "✓", theme.Success
	case rm.StateAttempted:
		return "◐", theme.Accent
	case rm.StateAvailable:
		return "○", theme.Secondary
	default:
		return "🔒", theme.TextDim
	}
}
