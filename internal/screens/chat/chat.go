// Package chat is the mentor conversation screen.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/llm"
	"github.com/abhisek/placeprep/internal/mentor"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/ui/components"
	"github.com/abhisek/placeprep/internal/ui/layout"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// answeredMsg carries the mentor's reply to one question.
type answeredMsg struct {
	Question string
	Reply    mentor.Reply
	Err      error
}

type spinnerTickMsg time.Time

// ChatScreen lets the learner ask the mentor questions.
type ChatScreen struct {
	env     *screen.Env
	input   components.TextInput
	waiting bool
	frame   int
	errMsg  string

	// pending is the question shown while waiting for a reply.
	pending string
	topics  []string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates the chat screen. env.Mentor must be set.
func New(env *screen.Env) *ChatScreen {
	return &ChatScreen{
		env:   env,
		input: components.NewTextInput("Ask about aptitude, DSA, interviews…", 500),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Mentor"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "↑↓", Description: "Earlier questions"},
		{Key: "Ctrl+R", Description: "New chat"},
		{Key: "Esc", Description: "Back"},
	}
}

// Waiting reports whether a question is in flight.
func (s *ChatScreen) Waiting() bool {
	return s.waiting
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answeredMsg:
		s.waiting, s.pending = false, ""
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			s.env.Log().Warn("mentor request failed", "err", msg.Err)
			return s, nil
		}
		s.errMsg = ""
		s.topics = msg.Reply.SuggestedTopics
		return s, nil

	case spinnerTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.frame = (s.frame + 1) % len(spinnerFrames)
		return s, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, s.send()
		case "ctrl+r":
			if !s.waiting {
				s.env.Mentor.Reset()
				s.errMsg, s.topics = "", nil
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() tea.Cmd {
	if s.input.Value() == "" || s.waiting {
		return nil
	}
	q := s.input.Submit()
	s.waiting, s.pending, s.errMsg = true, q, ""

	m := s.env.Mentor
	ask := func() tea.Msg {
		r, err := m.Ask(context.Background(), q)
		return answeredMsg{Question: q, Reply: r, Err: err}
	}
	return tea.Batch(ask, tick())
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func describe(err error) string {
	var unavailable *llm.ErrProviderUnavailable
	switch {
	case errors.As(err, &unavailable):
		return "The mentor is unavailable right now. Try again in a moment."
	case errors.Is(err, context.DeadlineExceeded):
		return "The mentor took too long to answer. Try again."
	default:
		return "The mentor couldn't answer: " + err.Error()
	}
}

func (s *ChatScreen) View(width, height int) string {
	cw := min(width-4, 90)
	youStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	mentorStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 2).PaddingLeft(2)

	var blocks []string
	for _, m := range s.env.Mentor.History() {
		if m.Role == llm.RoleUser {
			blocks = append(blocks, youStyle.Render("You")+"\n"+body.Render(m.Content))
		} else {
			blocks = append(blocks, mentorStyle.Render("Mentor")+"\n"+body.Render(m.Content))
		}
	}
	if s.waiting {
		blocks = append(blocks,
			youStyle.Render("You")+"\n"+body.Render(s.pending),
			mentorStyle.Render("Mentor")+" "+theme.Hint.Render(spinnerFrames[s.frame]+" thinking…"))
	}
	if len(blocks) == 0 {
		blocks = append(blocks, theme.Hint.Render("Ask the mentor anything about placement preparation."))
	}

	var footer []string
	if len(s.topics) > 0 {
		footer = append(footer, theme.Hint.Render("Suggested practice: "+strings.Join(s.topics, ", ")))
	}
	if s.errMsg != "" {
		footer = append(footer, theme.Notice.Render(s.errMsg))
	}
	footer = append(footer, s.input.View())
	bottom := strings.Join(footer, "\n")

	// Keep the newest exchanges visible above the input.
	transcript := strings.Join(blocks, "\n\n")
	room := max(height-lipgloss.Height(bottom)-2, 1)
	lines := strings.Split(transcript, "\n")
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n") + "\n\n" + bottom)
}
