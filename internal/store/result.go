package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var resultColumnNames = []string{
	"id", "sequence", "timestamp", "attempt_id", "learner_id", "context_id",
	"correct_count", "total_count", "score_percent", "passed", "threshold",
}

type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *resultRepo) Append(ctx context.Context, rec *ResultRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	res := rec.Result
	q, args := builder().Insert(resultsTableName).
		Columns(resultColumnNames[1:]...).
		Values(seqNum, rec.Timestamp, rec.AttemptID, rec.LearnerID, rec.ContextID,
			res.CorrectCount, res.TotalCount, res.ScorePercent, res.Passed, res.Threshold).
		Query()

	out, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("save result record: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return fmt.Errorf("save result record: %w", err)
	}

	rec.ID = int(id)
	rec.Sequence = seqNum
	return nil
}

func (r *resultRepo) List(ctx context.Context, learnerID string, opts QueryOpts) ([]ResultRecord, error) {
	sel := builder().Select(resultColumnNames...).
		From(entsql.Table(resultsTableName)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("sequence"))
	q, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query result records: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		res := &rec.Result
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.AttemptID, &rec.LearnerID,
			&rec.ContextID, &res.CorrectCount, &res.TotalCount, &res.ScorePercent, &res.Passed,
			&res.Threshold); err != nil {
			return nil, fmt.Errorf("scan result record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *resultRepo) Standings(ctx context.Context, learnerID string) ([]Standing, error) {
	q, args := builder().Select(
		"context_id",
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As(entsql.Max("score_percent"), "best_score"),
		entsql.As(entsql.Max("passed"), "any_passed"),
	).
		From(entsql.Table(resultsTableName)).
		Where(entsql.EQ("learner_id", learnerID)).
		GroupBy("context_id").
		OrderBy("context_id").
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var (
			s      Standing
			passed int64
		)
		if err := rows.Scan(&s.ContextID, &s.Attempts, &s.BestScore, &passed); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		s.Passed = passed > 0
		out = append(out, s)
	}
	return out, rows.Err()
}
