// Package review implements the admin review queue for generated questions.
//
// Decisions are applied to the in-memory queue first so the list updates at
// once; the confirmer then persists them, and a failed confirmation puts the
// item back to its previous status.
package review

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/store"
)

// ErrNotFound is returned for an id that is not in the queue.
var ErrNotFound = errors.New("review item not found")

// Item is one generated question under review.
type Item = store.PendingQuestion

// Confirmer persists a review decision.
type Confirmer interface {
	SetStatus(ctx context.Context, id, status, reviewer string) error
}

// Queue is the ordered list of items an admin works through. It is safe
// for concurrent use.
type Queue struct {
	mu       sync.Mutex
	items    []Item
	confirm  Confirmer
	reviewer string
}

// NewQueue creates a Queue over items in display order.
func NewQueue(items []Item, confirm Confirmer, reviewer string) *Queue {
	return &Queue{items: slices.Clone(items), confirm: confirm, reviewer: reviewer}
}

// Load builds a Queue from every stored item.
func Load(ctx context.Context, repo store.PendingRepo, reviewer string) (*Queue, error) {
	items, err := repo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load review queue: %w", err)
	}
	return NewQueue(items, repo, reviewer), nil
}

// Items returns a snapshot of the queue.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.items)
}

// Pending returns the items still awaiting a decision.
func (q *Queue) Pending() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Item
	for _, it := range q.items {
		if it.Status == store.StatusPending {
			out = append(out, it)
		}
	}
	return out
}

// Verify accepts id.
func (q *Queue) Verify(ctx context.Context, id string) error {
	return q.decide(ctx, id, store.StatusVerified)
}

// Reject discards id.
func (q *Queue) Reject(ctx context.Context, id string) error {
	return q.decide(ctx, id, store.StatusRejected)
}

func (q *Queue) decide(ctx context.Context, id, status string) error {
	prev, err := q.Apply(id, status)
	if err != nil {
		return err
	}
	if err := q.confirm.SetStatus(ctx, id, status, q.reviewer); err != nil {
		q.Revert(id, prev)
		return fmt.Errorf("confirm %s %s: %w", status, id, err)
	}
	return nil
}

// Prior is the review state an item had before Apply changed it.
type Prior struct {
	Status     string
	ReviewedBy string
	ReviewedAt time.Time
}

// Apply sets the status of id locally and returns the state it replaced.
// Callers that confirm asynchronously pair it with Confirm and Revert.
func (q *Queue) Apply(id, status string) (Prior, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.index(id)
	if i < 0 {
		return Prior{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	it := &q.items[i]
	prev := Prior{Status: it.Status, ReviewedBy: it.ReviewedBy, ReviewedAt: it.ReviewedAt}
	it.Status = status
	it.ReviewedBy = q.reviewer
	return prev, nil
}

// Confirm persists a status previously applied with Apply.
func (q *Queue) Confirm(ctx context.Context, id, status string) error {
	return q.confirm.SetStatus(ctx, id, status, q.reviewer)
}

// Revert puts id back to the state Apply returned after a failed
// confirmation.
func (q *Queue) Revert(id string, prev Prior) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := q.index(id); i >= 0 {
		q.items[i].Status = prev.Status
		q.items[i].ReviewedBy = prev.ReviewedBy
		q.items[i].ReviewedAt = prev.ReviewedAt
	}
}

func (q *Queue) index(id string) int {
	return slices.IndexFunc(q.items, func(it Item) bool { return it.ID == id })
}

// AddVerifiedSets adds one community set per topic of verified questions
// to bank.
func AddVerifiedSets(ctx context.Context, repo store.PendingRepo, bank *questionbank.Bank) error {
	byTopic, err := repo.Verified(ctx)
	if err != nil {
		return fmt.Errorf("load verified questions: %w", err)
	}
	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	slices.Sort(topics)
	for _, t := range topics {
		bank.Put(questionbank.CommunitySet(t, byTopic[t]))
	}
	return nil
}
