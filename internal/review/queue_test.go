package review

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/store"
)

type failingConfirmer struct{ err error }

func (f failingConfirmer) SetStatus(context.Context, string, string, string) error { return f.err }

func sampleQuestion(id string) assessment.Question {
	return assessment.Question{
		ID:           id,
		Prompt:       "What is 2 + 2?",
		Options:      []string{"3", "4", "5", "22"},
		CorrectIndex: 1,
	}
}

func openRepo(t *testing.T) store.PendingRepo {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "review.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st.PendingRepo()
}

func TestQueue_VerifyPersists(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	_, err := repo.Add(ctx, "Arithmetic", []assessment.Question{sampleQuestion("g-1"), sampleQuestion("g-2")})
	require.NoError(t, err)

	q, err := Load(ctx, repo, "admin")
	require.NoError(t, err)
	require.Len(t, q.Pending(), 2)

	require.NoError(t, q.Verify(ctx, "g-1"))
	require.NoError(t, q.Reject(ctx, "g-2"))
	assert.Empty(t, q.Pending())

	items := q.Items()
	assert.Equal(t, store.StatusVerified, items[0].Status)
	assert.Equal(t, "admin", items[0].ReviewedBy)
	assert.Equal(t, store.StatusRejected, items[1].Status)

	verified, err := repo.List(ctx, store.StatusVerified)
	require.NoError(t, err)
	require.Len(t, verified, 1)
	assert.Equal(t, "g-1", verified[0].ID)
}

func TestQueue_RevertsOnFailedConfirm(t *testing.T) {
	boom := errors.New("db locked")
	q := NewQueue([]Item{{ID: "g-1", Status: store.StatusPending}}, failingConfirmer{boom}, "admin")

	err := q.Verify(context.Background(), "g-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	items := q.Items()
	assert.Equal(t, store.StatusPending, items[0].Status)
	assert.Empty(t, items[0].ReviewedBy)
}

func TestQueue_ApplyIsVisibleBeforeConfirm(t *testing.T) {
	q := NewQueue([]Item{{ID: "g-1", Status: store.StatusPending}}, failingConfirmer{errors.New("x")}, "admin")

	prev, err := q.Apply("g-1", store.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, store.StatusPending, prev.Status)
	assert.Equal(t, store.StatusRejected, q.Items()[0].Status)

	require.Error(t, q.Confirm(context.Background(), "g-1", store.StatusRejected))
	q.Revert("g-1", prev)
	assert.Equal(t, store.StatusPending, q.Items()[0].Status)
}

func TestQueue_RevertRestoresEarlierReviewer(t *testing.T) {
	reviewed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	q := NewQueue([]Item{{
		ID: "g-1", Status: store.StatusVerified, ReviewedBy: "meera", ReviewedAt: reviewed,
	}}, failingConfirmer{errors.New("disk full")}, "ravi")

	require.Error(t, q.Reject(context.Background(), "g-1"))

	it := q.Items()[0]
	assert.Equal(t, store.StatusVerified, it.Status)
	assert.Equal(t, "meera", it.ReviewedBy)
	assert.True(t, it.ReviewedAt.Equal(reviewed))
}

func TestQueue_UnknownID(t *testing.T) {
	q := NewQueue(nil, failingConfirmer{}, "admin")
	assert.ErrorIs(t, q.Verify(context.Background(), "nope"), ErrNotFound)
	assert.ErrorIs(t, q.Reject(context.Background(), "nope"), ErrNotFound)
}

func TestQueue_ItemsIsSnapshot(t *testing.T) {
	q := NewQueue([]Item{{ID: "g-1", Status: store.StatusPending}}, failingConfirmer{}, "admin")
	items := q.Items()
	items[0].Status = store.StatusVerified
	assert.Equal(t, store.StatusPending, q.Items()[0].Status)
}

func TestAddVerifiedSets(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	_, err := repo.Add(ctx, "Arithmetic", []assessment.Question{sampleQuestion("g-1"), sampleQuestion("g-2")})
	require.NoError(t, err)
	require.NoError(t, repo.SetStatus(ctx, "g-1", store.StatusVerified, "admin"))

	bank := questionbank.NewBank("1.0.0")
	require.NoError(t, AddVerifiedSets(ctx, repo, bank))

	set, ok := bank.Set(questionbank.CommunitySetID("Arithmetic"))
	require.True(t, ok)
	require.Len(t, set.Questions, 1)
	assert.Equal(t, "g-1", set.Questions[0].ID)
}
