// Package logging sets up the structured log file. The TUI owns the
// terminal, so nothing is logged to stdout or stderr while it runs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps debug|info|warn|error to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// DefaultPath returns PLACEPREP_LOG_FILE, else
// $XDG_STATE_HOME/placeprep/placeprep.log, else ~/.local/state/placeprep/placeprep.log.
func DefaultPath() (string, error) {
	if p := os.Getenv("PLACEPREP_LOG_FILE"); p != "" {
		return p, nil
	}
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "placeprep", "placeprep.log"), nil
}

// New returns a text-format logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open opens (appending) the log file at path and returns a logger on it
// plus a close function. The level comes from PLACEPREP_LOG_LEVEL; an
// unknown value falls back to info and is reported in the log.
func Open(path string) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level, lerr := ParseLevel(os.Getenv("PLACEPREP_LOG_LEVEL"))
	logger := New(f, level)
	if lerr != nil {
		logger.Warn("falling back to info level", "err", lerr)
	}
	return logger, f.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError+1)
}
