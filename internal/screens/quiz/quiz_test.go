package quiz

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/questionbank"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/screen/screentest"
	"github.com/abhisek/placeprep/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg  { return screentest.Key(r) }
func specialKey(c rune) tea.KeyPressMsg { return screentest.Special(c) }

func testEnv(t *testing.T) *screen.Env {
	env, _ := screentest.Env(t, session.RoleLearner)
	return env
}

func jsSet(t *testing.T, env *screen.Env) questionbank.Set {
	t.Helper()
	set, ok := env.Bank.Set("javascript")
	if !ok {
		t.Fatal("javascript set missing from default bank")
	}
	return set
}

// answerAll answers every question, correctly when correct is true.
func answerAll(t *testing.T, s *QuizScreen, correct bool) {
	t.Helper()
	for i, q := range s.Attempt().Questions {
		if s.Attempt().Cursor() != i {
			t.Fatalf("cursor = %d, want %d", s.Attempt().Cursor(), i)
		}
		opt := q.CorrectIndex
		if !correct {
			opt = (q.CorrectIndex + 1) % len(q.Options)
		}
		s.Update(keyPress(rune('1' + opt)))
	}
}

func TestQuiz_SubmitBlockedUntilComplete(t *testing.T) {
	env := testEnv(t)
	s := New(env, jsSet(t, env), roadmap.Standings{})

	s.Update(specialKey(tea.KeyEnter)) // answers question 1 with option A
	_, cmd := s.Update(keyPress('s'))
	if cmd != nil {
		t.Fatal("submit should be blocked while incomplete")
	}
	if !strings.Contains(s.Notice(), "1 of 2 answered") {
		t.Errorf("notice = %q", s.Notice())
	}
}

func TestQuiz_NavigationKeepsAnswers(t *testing.T) {
	env := testEnv(t)
	s := New(env, jsSet(t, env), roadmap.Standings{})

	s.Update(keyPress('3'))
	if s.Attempt().Cursor() != 1 {
		t.Fatalf("answer should advance, cursor = %d", s.Attempt().Cursor())
	}
	s.Update(specialKey(tea.KeyLeft))
	if got, ok := s.Attempt().Selected(0); !ok || got != 2 {
		t.Errorf("Selected(0) = %d, %v", got, ok)
	}
	if s.options.Chosen != 2 || s.options.Cursor != 2 {
		t.Errorf("options should show the saved answer, got %+v", s.options)
	}

	s.Update(specialKey(tea.KeyDown))
	if s.options.Cursor != 3 {
		t.Errorf("cursor = %d after down", s.options.Cursor)
	}
}

func TestQuiz_PassUnlocksNextModule(t *testing.T) {
	env := testEnv(t)
	s := New(env, jsSet(t, env), roadmap.Standings{})
	answerAll(t, s, true)

	_, cmd := s.Update(keyPress('s'))
	if cmd == nil {
		t.Fatal("expected replace command on submit")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	res, ok := msg.Screen.(*ResultScreen)
	if !ok {
		t.Fatalf("expected *ResultScreen, got %T", msg.Screen)
	}

	if res.result.ScorePercent != 100 || !res.result.Passed {
		t.Errorf("result = %+v", res.result)
	}
	d := res.Decision()
	if !d.Unlock || d.NextContentID != "data-structures" {
		t.Errorf("decision = %+v", d)
	}
	if next, ok := res.nextSet(); !ok || next.ID != "data-structures" {
		t.Errorf("nextSet = %v, %v", next.ID, ok)
	}
}

func TestResult_PersistsInBackground(t *testing.T) {
	env := testEnv(t)
	set := jsSet(t, env)
	s := New(env, set, roadmap.Standings{})
	answerAll(t, s, false)
	res, err := s.Attempt().Submit(env.Engine)
	if err != nil {
		t.Fatal(err)
	}

	r := NewResult(env, set, s.Attempt(), res, roadmap.Standings{})
	cmd := r.Init()
	if cmd == nil {
		t.Fatal("expected persistence command")
	}
	if r.Notice() != "Saving result…" {
		t.Errorf("notice before save = %q", r.Notice())
	}
	if !strings.Contains(r.View(100, 30), "Not yet") {
		t.Error("result must be visible while saving")
	}

	r.Update(cmd())
	if r.Notice() != "Result saved." {
		t.Errorf("notice after save = %q", r.Notice())
	}

	st, err := env.Progress.Standing(t.Context(), env.Session)
	if err != nil {
		t.Fatal(err)
	}
	if st["javascript"].Attempts != 1 || st["javascript"].Passed {
		t.Errorf("standing = %+v", st["javascript"])
	}
}

func TestResult_SaveFailureIsOnlyANotice(t *testing.T) {
	env := testEnv(t)
	set := jsSet(t, env)
	s := New(env, set, roadmap.Standings{})
	answerAll(t, s, true)
	res, _ := s.Attempt().Submit(env.Engine)

	r := NewResult(env, set, s.Attempt(), res, roadmap.Standings{})
	r.Init()
	r.Update(persistedMsg{AttemptID: s.Attempt().ID, Err: errors.New("remote down")})

	if !strings.Contains(r.Notice(), "remote down") {
		t.Errorf("notice = %q", r.Notice())
	}
	if !strings.Contains(r.View(100, 30), "Passed") {
		t.Error("result should still be shown after a save failure")
	}

	// A stale message from an earlier attempt is ignored.
	r.Update(persistedMsg{AttemptID: "other"})
	if !strings.Contains(r.Notice(), "remote down") {
		t.Errorf("stale message changed notice to %q", r.Notice())
	}
}

func TestResult_TryAgainStartsFreshAttempt(t *testing.T) {
	env := testEnv(t)
	set := jsSet(t, env)
	s := New(env, set, roadmap.Standings{})
	answerAll(t, s, false)
	res, _ := s.Attempt().Submit(env.Engine)
	r := NewResult(env, set, s.Attempt(), res, roadmap.Standings{})

	_, cmd := r.Update(keyPress('r'))
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	retry := msg.Screen.(*QuizScreen)
	if retry.Attempt().ID == s.Attempt().ID {
		t.Error("retry must use a new attempt ID")
	}
	if retry.Attempt().AnsweredCount() != 0 {
		t.Error("retry must start with no answers")
	}
	if retry.standings["javascript"].Attempts != 1 {
		t.Errorf("retry standings = %+v", retry.standings["javascript"])
	}
}

func TestResult_FailDoneGoesBack(t *testing.T) {
	env := testEnv(t)
	set := jsSet(t, env)
	s := New(env, set, roadmap.Standings{})
	answerAll(t, s, false)
	res, _ := s.Attempt().Submit(env.Engine)
	r := NewResult(env, set, s.Attempt(), res, roadmap.Standings{})

	_, cmd := r.Update(specialKey(tea.KeyEnter))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}
