// Package session holds the signed-in learner's identity. The current
// Session is passed explicitly to every component that acts on the
// learner's behalf.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("not signed in")

// Roles.
const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

// Session identifies the signed-in learner.
type Session struct {
	LearnerID string    `json:"learner_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	// Token is issued locally by Login. A remote placement API will not
	// accept it; the API client sends PLACEPREP_API_TOKEN instead when set.
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
}

// IsAdmin reports whether the session may review generated questions.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Valid reports whether the session carries an identity and a token.
func (s Session) Valid() bool {
	return s.LearnerID != "" && s.Token != ""
}

// FileStore persists the session as a JSON file readable only by the user.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath resolves the session file path:
// 1. PLACEPREP_SESSION environment variable
// 2. $XDG_CONFIG_HOME/placeprep/session.json
// 3. ~/.config/placeprep/session.json
func DefaultPath() (string, error) {
	if p := os.Getenv("PLACEPREP_SESSION"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "placeprep", "session.json"), nil
}

// Path returns the file location.
func (f *FileStore) Path() string { return f.path }

// Load reads the saved session.
func (f *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", f.path, err)
	}
	if !s.Valid() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save writes s, replacing any saved session.
func (f *FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the saved session. Clearing when nobody is signed in is
// not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
