// Package history lists the learner's recorded attempts.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/store"
	"github.com/abhisek/placeprep/internal/ui/layout"
	"github.com/abhisek/placeprep/internal/ui/theme"
)

// Limit caps how many attempts are loaded.
const Limit = 50

// Filter narrows the list by verdict.
type Filter int

const (
	ShowAll Filter = iota
	ShowPassed
	ShowFailed
)

func (f Filter) String() string {
	switch f {
	case ShowPassed:
		return "passed"
	case ShowFailed:
		return "failed"
	}
	return "all"
}

func (f Filter) keep(rec store.ResultRecord) bool {
	switch f {
	case ShowPassed:
		return rec.Result.Passed
	case ShowFailed:
		return !rec.Result.Passed
	}
	return true
}

type loadedMsg struct {
	records []store.ResultRecord
	err     error
}

// Screen shows past attempts, newest first.
type Screen struct {
	env     *screen.Env
	all     []store.ResultRecord
	rows    []store.ResultRecord
	filter  Filter
	cursor  int
	open    string // attempt ID with details shown
	loading bool
	err     error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

func New(env *screen.Env) *Screen {
	return &Screen{env: env, loading: true}
}

func (s *Screen) Init() tea.Cmd {
	progress, sess := s.env.Progress, s.env.Session
	return func() tea.Msg {
		if progress == nil {
			return loadedMsg{}
		}
		recs, err := progress.History(context.Background(), sess, Limit)
		return loadedMsg{records: recs, err: err}
	}
}

func (s *Screen) Title() string { return "Results" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "f", Description: "Filter: " + s.filter.String()},
		{Key: "Esc", Description: "Back"},
	}
}

// Rows returns the attempts visible under the current filter.
func (s *Screen) Rows() []store.ResultRecord { return s.rows }

func (s *Screen) applyFilter() {
	s.rows = s.rows[:0]
	for _, rec := range s.all {
		if s.filter.keep(rec) {
			s.rows = append(s.rows, rec)
		}
	}
	s.cursor = min(s.cursor, max(len(s.rows)-1, 0))
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		s.err = msg.err
		s.all = msg.records
		s.applyFilter()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = min(s.cursor+1, max(len(s.rows)-1, 0))
		case "f":
			s.filter = (s.filter + 1) % 3
			s.open = ""
			s.applyFilter()
		case "enter":
			if len(s.rows) == 0 {
				break
			}
			id := s.rows[s.cursor].AttemptID
			if s.open == id {
				id = ""
			}
			s.open = id
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	switch {
	case s.err != nil:
		return layout.Center(theme.Notice.Foreground(theme.Error).Render("Could not load results: "+s.err.Error()), width)
	case s.loading:
		return layout.Center(theme.Hint.Render("Loading results..."), width)
	case len(s.all) == 0:
		return layout.Center(theme.Hint.Render("No attempts yet. Take a quiz from the roadmap."), width)
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render(s.summary()) + "\n\n")
	if len(s.rows) == 0 {
		b.WriteString(theme.Hint.Render("Nothing matches the " + s.filter.String() + " filter."))
	}
	for i, rec := range s.rows {
		row := fmt.Sprintf("%s  %-24s %3d%%  %d/%d",
			rec.Timestamp.Local().Format("Jan 02 15:04"), s.title(rec.ContextID),
			rec.Result.ScorePercent, rec.Result.CorrectCount, rec.Result.TotalCount)
		style, marker := theme.Unselected, "  "
		if i == s.cursor {
			style, marker = theme.Selected, "▸ "
		}
		b.WriteString(marker + style.Render(row) + "  " + theme.Mark(rec.Result.Passed) + "\n")
		if rec.AttemptID == s.open {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("    attempt %s  pass mark %d%%  #%d",
				rec.AttemptID, rec.Result.Threshold, rec.Sequence)) + "\n")
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *Screen) summary() string {
	passed := 0
	for _, rec := range s.all {
		if rec.Result.Passed {
			passed++
		}
	}
	return fmt.Sprintf("%d attempts, %d passed", len(s.all), passed)
}

// title returns the set title, or the raw ID when the set no longer exists.
func (s *Screen) title(id string) string {
	if s.env.Bank != nil {
		if set, ok := s.env.Bank.Set(id); ok {
			return set.Title
		}
	}
	return id
}
