package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var learnerColumnNames = []string{"id", "name", "role", "token", "created_at"}

type learnerRepo struct {
	db *sql.DB
}

func (r *learnerRepo) Upsert(ctx context.Context, l Learner) (*Learner, error) {
	if l.Role == "" {
		l.Role = RoleLearner
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	q, args := builder().Insert(learnersTableName).
		Columns(learnerColumnNames...).
		Values(l.ID, l.Name, l.Role, l.Token, l.CreatedAt).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("role")
				u.SetExcluded("token")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("upsert learner: %w", err)
	}
	return r.ByName(ctx, l.Name)
}

func (r *learnerRepo) Get(ctx context.Context, id string) (*Learner, error) {
	return r.one(ctx, entsql.EQ("id", id))
}

func (r *learnerRepo) ByName(ctx context.Context, name string) (*Learner, error) {
	return r.one(ctx, entsql.EQ("name", name))
}

func (r *learnerRepo) one(ctx context.Context, p *entsql.Predicate) (*Learner, error) {
	q, args := builder().Select(learnerColumnNames...).
		From(entsql.Table(learnersTableName)).
		Where(p).
		Limit(1).
		Query()

	var l Learner
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&l.ID, &l.Name, &l.Role, &l.Token, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query learner: %w", err)
	}
	return &l, nil
}
