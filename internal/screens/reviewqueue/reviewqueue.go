// Package reviewqueue is the admin screen for vetting generated questions.
package reviewqueue

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/review"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/store"
	"github.com/abhisek/placeprep/internal/ui/components"
	"github.com/abhisek/placeprep/internal/ui/layout"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

type queueLoadedMsg struct {
	Queue *review.Queue
	Err   error
}

// confirmedMsg reports whether a decision reached the store.
type confirmedMsg struct {
	ID     string
	Status string
	Prev   review.Prior
	Err    error
}

// ReviewScreen lists generated questions and records verify or reject
// decisions. The list changes immediately; persistence follows.
type ReviewScreen struct {
	env      *screen.Env
	queue    *review.Queue
	items    []review.Item
	selected int
	loaded   bool
	errMsg   string
	notice   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates the review screen over env.Pending.
func New(env *screen.Env) *ReviewScreen {
	return &ReviewScreen{env: env}
}

func (s *ReviewScreen) Init() tea.Cmd {
	repo, reviewer := s.env.Pending, s.env.Session.Name
	return func() tea.Msg {
		q, err := review.Load(context.Background(), repo, reviewer)
		return queueLoadedMsg{Queue: q, Err: err}
	}
}

func (s *ReviewScreen) Title() string {
	return "Review queue"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "v", Description: "Verify"},
		{Key: "x", Description: "Reject"},
		{Key: "Esc", Description: "Back"},
	}
}

// Items returns the queue as currently displayed.
func (s *ReviewScreen) Items() []review.Item {
	return s.items
}

// Notice returns the status line.
func (s *ReviewScreen) Notice() string {
	return s.notice
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case queueLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.queue = msg.Queue
		s.items = s.queue.Items()
		return s, nil

	case confirmedMsg:
		if msg.Err != nil {
			s.queue.Revert(msg.ID, msg.Prev)
			s.notice = fmt.Sprintf("Couldn't save decision for %s: %v", msg.ID, msg.Err)
			s.env.Log().Warn("review decision reverted", "id", msg.ID, "status", msg.Status, "err", msg.Err)
		} else {
			s.notice = fmt.Sprintf("%s marked %s.", msg.ID, msg.Status)
			s.env.Log().Info("review decision saved", "id", msg.ID, "status", msg.Status)
		}
		s.items = s.queue.Items()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
		case "v":
			return s, s.decide(store.StatusVerified)
		case "x":
			return s, s.decide(store.StatusRejected)
		}
	}
	return s, nil
}

// decide applies status to the selected item and returns the command
// that persists it.
func (s *ReviewScreen) decide(status string) tea.Cmd {
	if s.queue == nil || s.selected >= len(s.items) {
		return nil
	}
	id := s.items[s.selected].ID
	if s.items[s.selected].Status == status {
		return nil
	}
	prev, err := s.queue.Apply(id, status)
	if err != nil {
		s.notice = err.Error()
		return nil
	}
	s.items = s.queue.Items()
	s.notice = "Saving…"

	q := s.queue
	return func() tea.Msg {
		err := q.Confirm(context.Background(), id, status)
		return confirmedMsg{ID: id, Status: status, Prev: prev, Err: err}
	}
}

func (s *ReviewScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\nLoading review queue…")
	case len(s.items) == 0:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\nNothing to review. Generate questions with `placeprep bank generate`.")
	}

	cw := min(width-4, 90)
	var b strings.Builder
	b.WriteString("\n")
	for i, it := range s.items {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(prefix + statusBadge(it.Status) + " " +
			style.Render(fmt.Sprintf("[%s] %s", it.Topic, truncate(it.Question.Prompt, cw-20))) + "\n")
	}

	if s.selected < len(s.items) {
		b.WriteString("\n")
		b.WriteString(detail(s.items[s.selected], cw))
	}
	if s.notice != "" {
		b.WriteString("\n" + theme.Notice.Render(s.notice))
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func detail(it review.Item, width int) string {
	q := it.Question
	opts := components.NewOptionList(q.Prompt, q.Options, q.CorrectIndex)
	var b strings.Builder
	b.WriteString(opts.View(width - 4))
	if q.Explanation != "" {
		b.WriteString("\n" + theme.Hint.Render(q.Explanation))
	}
	if it.ReviewedBy != "" {
		b.WriteString("\n" + theme.Hint.Render("reviewed by "+it.ReviewedBy))
	}
	return theme.Card.Width(width).Render(b.String())
}

func statusBadge(status string) string {
	switch status {
	case store.StatusVerified:
		return theme.Mark(true)
	case store.StatusRejected:
		return theme.Mark(false)
	default:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("•")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
