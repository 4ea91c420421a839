package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/app"
	"github.com/abhisek/placeprep/internal/llm"
	"github.com/abhisek/placeprep/internal/mentor"
	"github.com/abhisek/placeprep/internal/screen"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the quiz app",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	sess, err := d.requireSession()
	if err != nil {
		return err
	}

	env := &screen.Env{
		Session:  sess,
		Bank:     d.bank,
		Roadmap:  d.roadmap,
		Engine:   d.engine,
		Progress: d.progressService(),
		Pending:  d.store.PendingRepo(),
		Logger:   d.logger,
	}

	// The mentor is optional; the rest of the app works without an LLM.
	provider, err := llm.NewProviderFromEnv(cmd.Context(), d.store.EventRepo(), d.logger)
	switch {
	case err == nil:
		cfg := mentor.DefaultConfig()
		cfg.Topics = d.bank.IDs()
		env.Mentor = mentor.New(provider, cfg)
	case errors.Is(err, llm.ErrNotConfigured):
		d.logger.Info("mentor disabled: no LLM provider configured")
	default:
		d.logger.Warn("mentor disabled", "err", err)
	}

	return app.Run(env)
}
