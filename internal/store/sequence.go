package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter issues one ordering number shared by results, LLM events
// and pending questions, so rows from different tables interleave
// correctly in exports.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	q, args := builder().Insert(sequenceTableName).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.Exec(q, args...); err != nil {
		return nil, fmt.Errorf("seed %s: %w", sequenceTableName, err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next claims the current value and advances the counter in one
// transaction. Values start at 1.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer tx.Rollback()

	upd, uargs := builder().Update(sequenceTableName).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Query()
	if _, err := tx.ExecContext(ctx, upd, uargs...); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	sel, sargs := builder().Select("next_val").
		From(entsql.Table(sequenceTableName)).
		Where(entsql.EQ("id", 1)).
		Query()
	var next int64
	if err := tx.QueryRowContext(ctx, sel, sargs...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
