// Package screentest builds screen environments for tests.
package screentest

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/progress"
	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/session"
	"github.com/abhisek/placeprep/internal/store"
)

// Env returns an environment over the default bank and roadmap with a
// temporary store. The store is closed when the test ends.
func Env(t *testing.T, role string) (*screen.Env, *store.Store) {
	t.Helper()
	bank, err := questionbank.Default()
	if err != nil {
		t.Fatal(err)
	}
	rm, err := roadmap.Default(func(id string) bool { _, ok := bank.Set(id); return ok })
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "placeprep.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	return &screen.Env{
		Session:  session.Session{LearnerID: "learner-1", Name: "asha", Role: role, Token: "tok"},
		Bank:     bank,
		Roadmap:  rm,
		Engine:   assessment.DefaultEngine(),
		Progress: progress.NewService(st.ResultRepo(), nil),
		Pending:  st.PendingRepo(),
	}, st
}

// Key returns a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special returns a key press for a non-printable key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Run executes cmd and returns its message, or nil for a nil cmd.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
