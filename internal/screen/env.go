package screen

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/mentor"
	"github.com/abhisek/placeprep/internal/progress"
	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/session"
	"github.com/abhisek/placeprep/internal/store"
)

// Env is what screens share: the signed-in session and the services they
// call. Optional services are nil when unavailable.
type Env struct {
	Session  session.Session
	Bank     *questionbank.Bank
	Roadmap  *roadmap.Roadmap
	Engine   *assessment.Engine
	Progress *progress.Service

	// Mentor is nil when no LLM provider is configured.
	Mentor *mentor.Service

	// Pending backs the review queue; only admins reach it.
	Pending store.PendingRepo

	Logger *slog.Logger
}

// Log returns the environment logger, or slog.Default().
func (e *Env) Log() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// StandingsLoadedMsg carries the learner's standings loaded by LoadStandings.
type StandingsLoadedMsg struct {
	Standings roadmap.Standings
	Err       error
}

// LoadStandings returns a command that loads the learner's standings.
func (e *Env) LoadStandings() tea.Cmd {
	return func() tea.Msg {
		if e.Progress == nil {
			return StandingsLoadedMsg{Standings: roadmap.Standings{}}
		}
		st, err := e.Progress.Standing(context.Background(), e.Session)
		return StandingsLoadedMsg{Standings: st, Err: err}
	}
}
