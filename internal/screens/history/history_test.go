package history

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/screen/screentest"
	"github.com/abhisek/placeprep/internal/session"
)

func loaded(t *testing.T, results map[string]bool) *Screen {
	t.Helper()
	env, _ := screentest.Env(t, session.RoleLearner)
	for attempt, passed := range results {
		res := assessment.Result{CorrectCount: 1, TotalCount: 2, ScorePercent: 50, Threshold: 75, Passed: passed}
		if passed {
			res.CorrectCount, res.ScorePercent = 2, 100
		}
		require.NoError(t, env.Progress.Record(context.Background(), env.Session, attempt, "javascript", res))
	}
	s := New(env)
	s.Update(screentest.Run(s.Init()))
	return s
}

func TestHistory_Empty(t *testing.T) {
	s := loaded(t, nil)
	assert.Contains(t, s.View(100, 30), "No attempts yet")
}

func TestHistory_FilterCycles(t *testing.T) {
	s := loaded(t, map[string]bool{"a-1": false, "a-2": true, "a-3": false})
	require.Len(t, s.Rows(), 3)
	assert.Contains(t, s.View(100, 30), "3 attempts, 1 passed")

	s.Update(screentest.Key('f'))
	require.Len(t, s.Rows(), 1)
	assert.True(t, s.Rows()[0].Result.Passed)

	s.Update(screentest.Key('f'))
	assert.Len(t, s.Rows(), 2)
	for _, r := range s.Rows() {
		assert.False(t, r.Result.Passed)
	}

	s.Update(screentest.Key('f'))
	assert.Len(t, s.Rows(), 3)
}

func TestHistory_EnterTogglesDetails(t *testing.T) {
	s := loaded(t, map[string]bool{"a-1": true})
	assert.NotContains(t, s.View(100, 30), "attempt a-1")

	s.Update(screentest.Special(tea.KeyEnter))
	assert.Contains(t, s.View(100, 30), "attempt a-1")

	s.Update(screentest.Special(tea.KeyEnter))
	assert.NotContains(t, s.View(100, 30), "attempt a-1")
}

func TestHistory_CursorClampsAfterFilter(t *testing.T) {
	s := loaded(t, map[string]bool{"a-1": false, "a-2": false, "a-3": true})
	s.Update(screentest.Special(tea.KeyDown))
	s.Update(screentest.Special(tea.KeyDown))
	s.Update(screentest.Special(tea.KeyDown))
	assert.Equal(t, 2, s.cursor)

	s.Update(screentest.Key('f'))
	assert.Equal(t, 0, s.cursor)
}
