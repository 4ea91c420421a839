package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/logging"
	"github.com/abhisek/placeprep/internal/store"
)

// closeLog is set by the persistent pre-run once the log file is open.
var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "placeprep",
	Short: "Campus placement quiz practice",
	Long: "PlacePrep — terminal quizzes for campus placement drives. Pass a module's quiz " +
		"to unlock the next one on the roadmap.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal; real environment variables win.
		_ = godotenv.Load()
		return setupLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLACEPREP_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Question bank YAML merged over the built-in bank (overrides PLACEPREP_BANK)")
	rootCmd.PersistentFlags().String("roadmap", "", "Roadmap YAML replacing the built-in roadmap (overrides PLACEPREP_ROADMAP)")
	rootCmd.PersistentFlags().Int("pass-threshold", 0,
		fmt.Sprintf("Pass mark in percent (overrides PLACEPREP_PASS_THRESHOLD, default %d)", assessment.DefaultPassingThreshold))

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() error {
	path, err := logging.DefaultPath()
	if err != nil {
		return err
	}
	logger, closeFn, err := logging.Open(path)
	if err != nil {
		// Logging is best effort; commands still run without a log file.
		slog.SetDefault(logging.Discard())
		return nil
	}
	slog.SetDefault(logger)
	closeLog = closeFn
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PLACEPREP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// flagOrEnv returns the string flag name, else the environment variable.
func flagOrEnv(cmd *cobra.Command, name, env string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	return os.Getenv(env)
}

// resolvePassThreshold returns --pass-threshold, else
// PLACEPREP_PASS_THRESHOLD, else the default pass mark.
func resolvePassThreshold(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("pass-threshold") {
		v, _ := cmd.Flags().GetInt("pass-threshold")
		return v, assessment.ValidateThreshold(v)
	}
	if s := os.Getenv("PLACEPREP_PASS_THRESHOLD"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("PLACEPREP_PASS_THRESHOLD: %w", err)
		}
		return v, assessment.ValidateThreshold(v)
	}
	return assessment.DefaultPassingThreshold, nil
}
