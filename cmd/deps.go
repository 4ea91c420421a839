package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/apiclient"
	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/progress"
	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/review"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/session"
	"github.com/abhisek/placeprep/internal/store"
)

// deps is what most commands need: the store, the bank with verified
// community sets merged in, the roadmap and the engine.
type deps struct {
	store    *store.Store
	bank     *questionbank.Bank
	roadmap  *roadmap.Roadmap
	engine   *assessment.Engine
	sessions *session.FileStore
	logger   *slog.Logger
}

// openDeps opens the store and loads the content. Callers must call close.
func openDeps(cmd *cobra.Command) (*deps, error) {
	threshold, err := resolvePassThreshold(cmd)
	if err != nil {
		return nil, err
	}
	engine, err := assessment.NewEngine(threshold)
	if err != nil {
		return nil, err
	}

	sessPath, err := session.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	d := &deps{
		store:    st,
		engine:   engine,
		sessions: session.NewFileStore(sessPath),
		logger:   slog.Default(),
	}

	d.bank, err = questionbank.Load(flagOrEnv(cmd, "bank", "PLACEPREP_BANK"))
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := review.AddVerifiedSets(cmd.Context(), st.PendingRepo(), d.bank); err != nil {
		d.logger.Warn("community sets unavailable", "err", err)
	}

	known := func(id string) bool { _, ok := d.bank.Set(id); return ok }
	if p := flagOrEnv(cmd, "roadmap", "PLACEPREP_ROADMAP"); p != "" {
		d.roadmap, err = roadmap.LoadFile(p, known)
	} else {
		d.roadmap, err = roadmap.Default(known)
	}
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load roadmap: %w", err)
	}
	return d, nil
}

func (d *deps) close() error {
	return d.store.Close()
}

// requireSession returns the saved session or a hint to log in.
func (d *deps) requireSession() (session.Session, error) {
	s, err := d.sessions.Load()
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, fmt.Errorf("%w: run `placeprep login --name <you>` first", err)
	}
	return s, err
}

// requireAdmin is requireSession restricted to admins.
func (d *deps) requireAdmin() (session.Session, error) {
	s, err := d.requireSession()
	if err != nil {
		return s, err
	}
	if !s.IsAdmin() {
		return s, fmt.Errorf("%s is not an admin; log in with --admin to review questions", s.Name)
	}
	return s, nil
}

// progressService records locally and, when PLACEPREP_API_URL is set, to
// the remote progress API.
func (d *deps) progressService() *progress.Service {
	var sinks []progress.ScoreSink
	client, err := apiclient.NewFromEnv()
	switch {
	case err == nil:
		d.logger.Info("remote progress enabled", "url", client.BaseURL())
		sinks = append(sinks, client)
	case !errors.Is(err, apiclient.ErrNotConfigured):
		d.logger.Warn("remote progress disabled", "err", err)
	}
	return progress.NewService(d.store.ResultRepo(), d.logger, sinks...)
}

func (d *deps) standings(ctx context.Context, svc *progress.Service, s session.Session) roadmap.Standings {
	st, err := svc.Standing(ctx, s)
	if err != nil {
		d.logger.Warn("load standings failed", "err", err)
		return roadmap.Standings{}
	}
	return st
}
