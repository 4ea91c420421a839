// Package quiz holds the question screen and the result screen that
// replaces it on submit.
package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/questionbank"
	qz "github.com/abhisek/placeprep/internal/quiz"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/ui/components"
	"github.com/abhisek/placeprep/internal/ui/layout"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

// QuizScreen walks the learner through one attempt.
type QuizScreen struct {
	env       *screen.Env
	set       questionbank.Set
	attempt   *qz.Attempt
	standings roadmap.Standings
	options   components.OptionList
	notice    string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.LeaveGuard = (*QuizScreen)(nil)

// New starts a fresh attempt at set. standings are the learner's standings
// when the attempt began; they drive the unlock decision afterwards.
func New(env *screen.Env, set questionbank.Set, standings roadmap.Standings) *QuizScreen {
	return resume(env, set, qz.New(set.ID, set.Questions), standings)
}

func resume(env *screen.Env, set questionbank.Set, a *qz.Attempt, standings roadmap.Standings) *QuizScreen {
	s := &QuizScreen{env: env, set: set, attempt: a, standings: standings}
	s.syncOptions()
	env.Log().Debug("attempt started", "attempt", a.ID, "set", set.ID, "questions", len(set.Questions))
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return s.set.Title
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Option"},
		{Key: "Enter", Description: "Answer"},
		{Key: "←→", Description: "Question"},
		{Key: "s", Description: "Submit"},
		{Key: "Esc", Description: "Abandon"},
	}
}

// LeaveWarning asks for a second Esc once any question is answered.
func (s *QuizScreen) LeaveWarning() string {
	n := s.attempt.AnsweredCount()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("Esc again to abandon this attempt (%d of %d answered, nothing is saved).", n, len(s.set.Questions))
}

// Attempt exposes the in-progress attempt.
func (s *QuizScreen) Attempt() *qz.Attempt {
	return s.attempt
}

// Notice returns the current status line.
func (s *QuizScreen) Notice() string {
	return s.notice
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	key := kmsg.String()
	switch key {
	case "enter", "space", " ":
		s.choose(s.options.Cursor)
		return s, nil
	case "right", "l", "tab":
		s.move(s.attempt.Next())
		return s, nil
	case "left", "h", "shift+tab":
		s.move(s.attempt.Prev())
		return s, nil
	case "s":
		return s.submit()
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		s.choose(int(key[0] - '1'))
		return s, nil
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

// choose records option for the current question and advances to the
// next one.
func (s *QuizScreen) choose(option int) {
	if err := s.attempt.Select(option); err != nil {
		return
	}
	s.notice = ""
	if !s.attempt.Next() {
		s.syncOptions()
	} else {
		s.move(true)
	}
}

func (s *QuizScreen) move(moved bool) {
	if moved {
		s.notice = ""
		s.syncOptions()
	}
}

func (s *QuizScreen) syncOptions() {
	q := s.attempt.Current()
	if q == nil {
		s.options = components.OptionList{Chosen: -1}
		return
	}
	chosen, ok := s.attempt.Selected(s.attempt.Cursor())
	if !ok {
		chosen = -1
	}
	s.options = components.NewOptionList(q.Prompt, q.Options, chosen)
}

func (s *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	if !s.attempt.CanSubmit() {
		s.notice = fmt.Sprintf("Answer every question before submitting (%d of %d answered)",
			s.attempt.AnsweredCount(), len(s.attempt.Questions))
		return s, nil
	}
	res, err := s.attempt.Submit(s.env.Engine)
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	return s, router.Replace(NewResult(s.env, s.set, s.attempt, res, s.standings))
}

func (s *QuizScreen) View(width, height int) string {
	if len(s.attempt.Questions) == 0 {
		return layout.Center(theme.Hint.Render("\n\nThis set has no questions yet."), width)
	}

	cw := min(width-4, 76)
	var b strings.Builder
	b.WriteString("\n")

	total := len(s.attempt.Questions)
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", s.attempt.Cursor()+1, total),
		s.attempt.AnsweredCount(), total, cw).View())
	b.WriteString("\n\n")
	b.WriteString(s.options.View(cw))
	b.WriteString("\n")
	b.WriteString(s.dots())
	b.WriteString("\n\n")

	if s.notice != "" {
		b.WriteString(theme.Notice.Render(s.notice))
	} else if s.attempt.CanSubmit() {
		b.WriteString(theme.Hint.Render("All questions answered. Press s to submit."))
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(b.String())
}

// dots renders one marker per question: filled when answered, ringed at
// the cursor.
func (s *QuizScreen) dots() string {
	parts := make([]string, len(s.attempt.Questions))
	for i := range s.attempt.Questions {
		_, answered := s.attempt.Selected(i)
		mark := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if answered {
			mark = "●"
			style = style.Foreground(theme.Secondary)
		}
		if i == s.attempt.Cursor() {
			style = style.Bold(true).Foreground(theme.Primary)
			mark = "◉"
			if answered {
				mark = "●"
			}
		}
		parts[i] = style.Render(mark)
	}
	return strings.Join(parts, " ")
}
