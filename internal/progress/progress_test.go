package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/session"
	"github.com/abhisek/placeprep/internal/store"
)

var sess = session.Session{LearnerID: "l-1", Name: "asha", Token: "tok"}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "progress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

type failingResults struct{ store.ResultRepo }

func (failingResults) Append(context.Context, *store.ResultRecord) error {
	return errors.New("disk full")
}

type call struct {
	contextID string
	score     int
	token     string
}

func recordingSink(calls *[]call, err error) ScoreSink {
	return SinkFunc(func(_ context.Context, s session.Session, contextID string, score int) error {
		*calls = append(*calls, call{contextID, score, s.Token})
		return err
	})
}

func TestRecord_StoresAndForwards(t *testing.T) {
	st := openStore(t)
	var calls []call
	svc := NewService(st.ResultRepo(), nil, recordingSink(&calls, nil))

	res := assessment.Result{CorrectCount: 3, TotalCount: 4, ScorePercent: 75, Passed: true, Threshold: 75}
	require.NoError(t, svc.Record(context.Background(), sess, "att-1", "dbms", res))

	assert.Equal(t, []call{{"dbms", 75, "tok"}}, calls)

	hist, err := svc.History(context.Background(), sess, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "att-1", hist[0].AttemptID)
	assert.Equal(t, res, hist[0].Result)
}

func TestRecord_JoinsFailures(t *testing.T) {
	sinkErr := errors.New("remote down")
	var calls []call
	svc := NewService(failingResults{}, nil,
		recordingSink(&calls, sinkErr),
		recordingSink(&calls, nil),
	)

	err := svc.Record(context.Background(), sess, "att-1", "dbms", assessment.Result{ScorePercent: 50})
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
	assert.Contains(t, err.Error(), "disk full")
	// The local failure does not stop remote submission.
	assert.Len(t, calls, 2)
}

func TestStanding(t *testing.T) {
	st := openStore(t)
	svc := NewService(st.ResultRepo(), nil)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, sess, "a1", "dbms", assessment.Result{ScorePercent: 50, TotalCount: 4, Threshold: 75}))
	require.NoError(t, svc.Record(ctx, sess, "a2", "dbms", assessment.Result{ScorePercent: 100, Passed: true, TotalCount: 4, Threshold: 75}))
	require.NoError(t, svc.Record(ctx, sess, "a3", "aptitude", assessment.Result{ScorePercent: 25, TotalCount: 4, Threshold: 75}))

	got, err := svc.Standing(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, roadmap.Standing{Attempts: 2, BestScore: 100, Passed: true}, got["dbms"])
	assert.Equal(t, roadmap.Standing{Attempts: 1, BestScore: 25}, got["aptitude"])

	other, err := svc.Standing(ctx, session.Session{LearnerID: "l-2"})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDecide(t *testing.T) {
	rm, err := roadmap.Default(nil)
	require.NoError(t, err)

	pass := assessment.Result{ScorePercent: 100, Passed: true, Threshold: 75}
	d := Decide(rm, "javascript", roadmap.Standings{}, pass)
	assert.True(t, d.Unlock)
	assert.Equal(t, "data-structures", d.NextContentID)

	fail := assessment.Result{ScorePercent: 50, Threshold: 75}
	d = Decide(rm, "javascript", roadmap.Standings{}, fail)
	assert.False(t, d.Unlock)
	assert.True(t, d.Retry)
	assert.Empty(t, d.NextContentID)

	// hr-round is the last module.
	d = Decide(rm, "hr-round", roadmap.Standings{}, pass)
	assert.True(t, d.Unlock)
	assert.Empty(t, d.NextContentID)

	d = Decide(nil, "javascript", nil, pass)
	assert.True(t, d.Unlock)
}
