// Package store persists learners, quiz results, LLM request events and
// generated questions awaiting review in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// pragmas are passed in the DSN so the driver applies them to every pooled
// connection, not just the first.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// Store owns the database and hands out repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// Open opens (creating if needed) the database at path or DSN and migrates
// the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	fail := func(step string, err error) (*Store, error) {
		drv.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fail("migrate", err)
	}
	if err := m.Create(context.Background(), tables...); err != nil {
		return fail("migrate", err)
	}
	seq, err := newSequenceCounter(db)
	if err != nil {
		return fail("sequence", err)
	}
	return &Store{db: db, drv: drv, seq: seq}, nil
}

// withPragmas appends the connection pragmas unless the DSN already sets
// its own.
func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	q := url.Values{"_pragma": pragmas}.Encode()
	if strings.Contains(dsn, "?") {
		return dsn + "&" + q
	}
	return dsn + "?" + q
}

// DB exposes the connection for diagnostics and tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) LearnerRepo() LearnerRepo { return &learnerRepo{db: s.db} }

func (s *Store) ResultRepo() ResultRepo { return &resultRepo{db: s.db, seq: s.seq} }

func (s *Store) EventRepo() EventRepo { return &eventRepo{db: s.db, seq: s.seq} }

func (s *Store) PendingRepo() PendingRepo { return &pendingRepo{db: s.db, seq: s.seq} }

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// DefaultDBPath is $PLACEPREP_DB, else placeprep/placeprep.db under
// $XDG_DATA_HOME (default ~/.local/share). The parent directory is created.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PLACEPREP_DB"); p != "" {
		return p, EnsureDir(p)
	}
	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		data = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(data, "placeprep", "placeprep.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
