package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/llm"
	"github.com/abhisek/placeprep/internal/mentor"
	"github.com/abhisek/placeprep/internal/router"
	"github.com/abhisek/placeprep/internal/screen"
	"github.com/abhisek/placeprep/internal/screen/screentest"
	"github.com/abhisek/placeprep/internal/screens/picker"
	"github.com/abhisek/placeprep/internal/session"
)

func labels(h *HomeScreen) map[string]bool {
	out := make(map[string]bool)
	for _, it := range h.menu.Items {
		out[it.Label] = it.Disabled
	}
	return out
}

func TestHome_LearnerMenu(t *testing.T) {
	env, _ := screentest.Env(t, session.RoleLearner)
	h := New(env)

	disabled := labels(h)
	if !disabled["MENTOR"] {
		t.Error("mentor should be disabled without a provider")
	}
	if !disabled["REVIEW QUEUE"] {
		t.Error("review queue should be admin only")
	}
	if disabled["TAKE A QUIZ"] {
		t.Error("take a quiz should be enabled")
	}
	if h.banner == "" {
		t.Error("expected a banner when the mentor is unavailable")
	}
}

func TestHome_AdminWithMentor(t *testing.T) {
	env, _ := screentest.Env(t, session.RoleAdmin)
	env.Mentor = mentor.New(llm.NewMockProvider(), mentor.DefaultConfig())
	h := New(env)

	disabled := labels(h)
	if disabled["MENTOR"] || disabled["REVIEW QUEUE"] {
		t.Errorf("menu = %v", disabled)
	}
	if h.banner != "" {
		t.Errorf("banner = %q", h.banner)
	}
}

func TestHome_StatsFromStandings(t *testing.T) {
	env, _ := screentest.Env(t, session.RoleLearner)
	res := assessment.Result{CorrectCount: 2, TotalCount: 2, ScorePercent: 100, Passed: true, Threshold: 75}
	ctx := context.Background()
	if err := env.Progress.Record(ctx, env.Session, "a-1", "javascript", res); err != nil {
		t.Fatal(err)
	}
	if err := env.Progress.Record(ctx, env.Session, "a-2", "aptitude", assessment.Result{TotalCount: 4, Threshold: 75}); err != nil {
		t.Fatal(err)
	}

	h := New(env)
	h.Update(env.LoadStandings()())

	passed, total, attempts := h.Stats()
	if passed != 1 || total != len(env.Roadmap.Modules()) || attempts != 2 {
		t.Errorf("stats = %d/%d, %d attempts", passed, total, attempts)
	}
}

func TestHome_ResumeReloads(t *testing.T) {
	env, _ := screentest.Env(t, session.RoleLearner)
	h := New(env)
	_, cmd := h.Update(router.ResumedMsg{})
	if cmd == nil {
		t.Fatal("resume should reload progress")
	}
	msg := screentest.Run(cmd)
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if _, ok := msg.(screen.StandingsLoadedMsg); !ok {
			t.Fatalf("unexpected msg %T", msg)
		}
		return
	}
	found := false
	for _, c := range batch {
		if _, ok := screentest.Run(c).(screen.StandingsLoadedMsg); ok {
			found = true
		}
	}
	if !found {
		t.Error("no standings load in resume batch")
	}
}

func TestHome_EnterOpensPicker(t *testing.T) {
	env, _ := screentest.Env(t, session.RoleLearner)
	h := New(env)
	_, cmd := h.Update(screentest.Special(tea.KeyEnter))
	msg, ok := screentest.Run(cmd).(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", screentest.Run(cmd))
	}
	if _, ok := msg.Screen.(*picker.PickerScreen); !ok {
		t.Errorf("pushed %T", msg.Screen)
	}
}
