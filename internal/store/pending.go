package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/placeprep/internal/assessment"
)

var pendingColumnNames = []string{
	"id", "sequence", "topic", "question", "status", "reviewed_by", "created_at", "reviewed_at",
}

// questionPayload is the JSON form of a question in the pending table.
type questionPayload struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

type pendingRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *pendingRepo) Add(ctx context.Context, topic string, qs []assessment.Question) ([]PendingQuestion, error) {
	out := make([]PendingQuestion, 0, len(qs))
	for _, q := range qs {
		payload, err := json.Marshal(questionPayload{
			ID:           q.ID,
			Prompt:       q.Prompt,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		})
		if err != nil {
			return out, fmt.Errorf("marshal question %s: %w", q.ID, err)
		}

		seqNum, err := r.seq.Next(ctx)
		if err != nil {
			return out, fmt.Errorf("next sequence: %w", err)
		}
		now := time.Now().UTC()

		ins, args := builder().Insert(pendingTableName).
			Columns(pendingColumnNames[:7]...).
			Values(q.ID, seqNum, topic, string(payload), StatusPending, "", now).
			Query()
		if _, err := r.db.ExecContext(ctx, ins, args...); err != nil {
			return out, fmt.Errorf("save pending question %s: %w", q.ID, err)
		}

		out = append(out, PendingQuestion{
			ID:        q.ID,
			Sequence:  seqNum,
			Topic:     topic,
			Question:  q,
			Status:    StatusPending,
			CreatedAt: now,
		})
	}
	return out, nil
}

func (r *pendingRepo) List(ctx context.Context, status string) ([]PendingQuestion, error) {
	sel := builder().Select(pendingColumnNames...).
		From(entsql.Table(pendingTableName)).
		OrderBy("sequence")
	if status != "" {
		sel.Where(entsql.EQ("status", status))
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending questions: %w", err)
	}
	defer rows.Close()

	var out []PendingQuestion
	for rows.Next() {
		var (
			p          PendingQuestion
			payload    string
			reviewedAt sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.Sequence, &p.Topic, &payload, &p.Status,
			&p.ReviewedBy, &p.CreatedAt, &reviewedAt); err != nil {
			return nil, fmt.Errorf("scan pending question: %w", err)
		}
		var qp questionPayload
		if err := json.Unmarshal([]byte(payload), &qp); err != nil {
			return nil, fmt.Errorf("decode pending question %s: %w", p.ID, err)
		}
		p.Question = assessment.Question{
			ID:           qp.ID,
			Prompt:       qp.Prompt,
			Options:      qp.Options,
			CorrectIndex: qp.CorrectIndex,
			Explanation:  qp.Explanation,
		}
		if reviewedAt.Valid {
			p.ReviewedAt = reviewedAt.Time
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *pendingRepo) SetStatus(ctx context.Context, id, status, reviewer string) error {
	switch status {
	case StatusPending, StatusVerified, StatusRejected:
	default:
		return fmt.Errorf("invalid review status %q", status)
	}

	upd := builder().Update(pendingTableName).
		Set("status", status).
		Set("reviewed_by", reviewer)
	if status == StatusPending {
		upd.SetNull("reviewed_at")
	} else {
		upd.Set("reviewed_at", time.Now().UTC())
	}
	q, args := upd.Where(entsql.EQ("id", id)).Query()

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update pending question %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pending question %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("pending question %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *pendingRepo) Verified(ctx context.Context) (map[string][]assessment.Question, error) {
	items, err := r.List(ctx, StatusVerified)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]assessment.Question)
	for _, p := range items {
		out[p.Topic] = append(out[p.Topic], p.Question)
	}
	return out, nil
}
