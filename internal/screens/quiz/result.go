package quiz

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/progress"
	"github.com/abhisek/placeprep/internal/questionbank"
	qz "github.com/abhisek/placeprep/internal/quiz"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/ui/components"
	"github.com/abhisek/placeprep/internal/ui/layout"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

type saveState int

const (
	saveNone saveState = iota
	saveRunning
	saveDone
	saveFailed
)

// persistedMsg reports the outcome of recording a result.
type persistedMsg struct {
	AttemptID string
	Err       error
}

// ResultScreen shows a submitted attempt's score and what it unlocks.
// Recording the result runs in the background; its outcome only changes
// the notice line.
type ResultScreen struct {
	env      *screen.Env
	set      questionbank.Set
	attempt  *qz.Attempt
	result   assessment.Result
	decision assessment.Decision

	// after is the standings including this result.
	after roadmap.Standings

	save    saveState
	saveErr error
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// NewResult creates the result screen for a submitted attempt.
func NewResult(env *screen.Env, set questionbank.Set, a *qz.Attempt, res assessment.Result, before roadmap.Standings) *ResultScreen {
	after := make(roadmap.Standings, len(before)+1)
	for k, v := range before {
		after[k] = v
	}
	st := after[set.ID]
	st.Attempts++
	st.BestScore = max(st.BestScore, res.ScorePercent)
	st.Passed = st.Passed || res.Passed
	after[set.ID] = st

	return &ResultScreen{
		env:      env,
		set:      set,
		attempt:  a,
		result:   res,
		decision: progress.Decide(env.Roadmap, set.ID, before, res),
		after:    after,
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	if s.env.Progress == nil {
		return nil
	}
	s.save = saveRunning
	env, attemptID, setID, res := s.env, s.attempt.ID, s.set.ID, s.result
	return func() tea.Msg {
		err := env.Progress.Record(context.Background(), env.Session, attemptID, setID, res)
		return persistedMsg{AttemptID: attemptID, Err: err}
	}
}

func (s *ResultScreen) Title() string {
	return "Result"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "r", Description: "Try again"}}
	if _, ok := s.nextSet(); ok {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Continue"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Done"})
	}
	return append(hints, layout.KeyHint{Key: "h", Description: "Home"}, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Decision returns the unlock decision for the result.
func (s *ResultScreen) Decision() assessment.Decision {
	return s.decision
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case persistedMsg:
		if msg.AttemptID != s.attempt.ID {
			return s, nil
		}
		if msg.Err != nil {
			s.save, s.saveErr = saveFailed, msg.Err
			s.env.Log().Warn("result not fully recorded", "attempt", msg.AttemptID, "err", msg.Err)
		} else {
			s.save = saveDone
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return s, router.Replace(resume(s.env, s.set, s.attempt.Reset(), s.after))
		case "h":
			return s, router.Home()
		case "enter":
			if next, ok := s.nextSet(); ok {
				return s, router.Replace(New(s.env, next, s.after))
			}
			return s, router.Back()
		}
	}
	return s, nil
}

// nextSet resolves the decision's unlocked module to its question set.
func (s *ResultScreen) nextSet() (questionbank.Set, bool) {
	if !s.decision.Unlock || s.decision.NextContentID == "" || s.env.Roadmap == nil {
		return questionbank.Set{}, false
	}
	m, ok := s.env.Roadmap.Module(s.decision.NextContentID)
	if !ok {
		return questionbank.Set{}, false
	}
	return s.env.Bank.Set(m.SetID)
}

func (s *ResultScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	verdict := "Not yet"
	if s.result.Passed {
		verdict = "Passed"
	}
	b.WriteString(layout.Center(theme.Verdict(s.result.Passed).Render(verdict), width))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%d%%", s.result.ScorePercent)), width))
	b.WriteString("\n")
	b.WriteString(layout.Center(theme.Hint.Render(fmt.Sprintf("%d of %d correct · pass mark %d%%",
		s.result.CorrectCount, s.result.TotalCount, s.result.Threshold)), width))
	b.WriteString("\n\n")

	b.WriteString(layout.Center(theme.Body.Render(s.decision.Message), width))
	b.WriteString("\n")
	if next, ok := s.nextSet(); ok {
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Secondary).
			Render("Unlocked: "+next.Title), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	buttons := []components.Button{{Key: "r", Label: "Try again", Active: !s.result.Passed}}
	if _, ok := s.nextSet(); ok {
		buttons = append(buttons, components.Button{Key: "enter", Label: "Continue", Active: true})
	} else {
		buttons = append(buttons, components.Button{Key: "enter", Label: "Done", Active: s.result.Passed})
	}
	b.WriteString(layout.Center(components.ButtonRow(buttons...), width))
	b.WriteString("\n\n")

	if n := s.noticeText(); n != "" {
		b.WriteString(layout.Center(theme.Notice.Render(n), width))
	}
	return b.String()
}

// Notice returns the persistence status line.
func (s *ResultScreen) Notice() string {
	return s.noticeText()
}

func (s *ResultScreen) noticeText() string {
	switch s.save {
	case saveRunning:
		return "Saving result…"
	case saveDone:
		return "Result saved."
	case saveFailed:
		return "Couldn't save your result: " + s.saveErr.Error()
	default:
		return ""
	}
}
