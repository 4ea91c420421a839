package roadmap

import (
	"strings"
	"testing"
)

func knownSets(ids ...string) SetLookup {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

var builtinSets = knownSets("aptitude", "javascript", "data-structures", "dbms", "hr-round")

func TestDefault_Valid(t *testing.T) {
	r, err := Default(builtinSets)
	if err != nil {
		t.Fatalf("default roadmap: %v", err)
	}
	mods := r.Modules()
	if len(mods) != 5 {
		t.Fatalf("got %d modules, want 5", len(mods))
	}

	pos := make(map[string]int, len(mods))
	for i, m := range mods {
		pos[m.ID] = i
	}
	for _, m := range mods {
		for _, p := range m.Prerequisites {
			if pos[p] >= pos[m.ID] {
				t.Errorf("module %q appears before its prerequisite %q", m.ID, p)
			}
		}
	}

	roots := r.Roots()
	if len(roots) != 2 || roots[0].ID != "aptitude-basics" || roots[1].ID != "javascript-basics" {
		t.Errorf("Roots() = %v", roots)
	}
}

func TestDefault_UnknownSet(t *testing.T) {
	_, err := Default(knownSets("aptitude"))
	if err == nil {
		t.Fatal("expected an error for unknown question sets")
	}
	if !strings.Contains(err.Error(), `unknown question set "javascript"`) {
		t.Errorf("error should name the missing set, got: %v", err)
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name    string
		modules []Module
		want    string
	}{
		{
			name:    "empty",
			modules: nil,
			want:    "no modules",
		},
		{
			name: "duplicate id",
			modules: []Module{
				{ID: "a", SetID: "s"},
				{ID: "a", SetID: "s"},
			},
			want: "duplicate module ID",
		},
		{
			name: "dangling prerequisite",
			modules: []Module{
				{ID: "a", SetID: "s"},
				{ID: "b", SetID: "s", Prerequisites: []string{"ghost"}},
			},
			want: `nonexistent prerequisite "ghost"`,
		},
		{
			name: "cycle",
			modules: []Module{
				{ID: "root", SetID: "s"},
				{ID: "a", SetID: "s", Prerequisites: []string{"b"}},
				{ID: "b", SetID: "s", Prerequisites: []string{"a"}},
			},
			want: "cycle detected involving modules: a, b",
		},
		{
			name: "no root",
			modules: []Module{
				{ID: "a", SetID: "s", Prerequisites: []string{"b"}},
				{ID: "b", SetID: "s", Prerequisites: []string{"a"}},
			},
			want: "no root modules",
		},
		{
			name: "self reference",
			modules: []Module{
				{ID: "a", SetID: "s", Prerequisites: []string{"a"}},
			},
			want: "lists itself",
		},
		{
			name:    "missing set id",
			modules: []Module{{ID: "a"}},
			want:    "has no set_id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.modules, nil)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should contain %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestParse_RejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("modules:\n  - id: a\n    set_id: s\n    colour: red\n"), nil)
	if err == nil {
		t.Fatal("expected decode error for unknown field")
	}
}

func TestStates(t *testing.T) {
	r, err := Default(builtinSets)
	if err != nil {
		t.Fatal(err)
	}

	st := Standings{
		"javascript": {Attempts: 2, BestScore: 100, Passed: true},
		"aptitude":   {Attempts: 1, BestScore: 50},
	}

	want := map[string]State{
		"aptitude-basics":   StateAttempted,
		"javascript-basics": StatePassed,
		"data-structures":   StateAvailable,
		"databases":         StateLocked,
		"hr-interview":      StateLocked,
	}
	for _, ms := range r.States(st) {
		if ms.State != want[ms.Module.ID] {
			t.Errorf("%s: state = %s, want %s", ms.Module.ID, ms.State, want[ms.Module.ID])
		}
	}

	if r.StateOf("ghost", st) != StateLocked {
		t.Error("unknown module should be locked")
	}
	if !r.Unlocked("databases", Standings{"data-structures": {Passed: true}}) {
		t.Error("databases should unlock once data-structures is passed")
	}
}

func TestNextAfter(t *testing.T) {
	r, err := Default(builtinSets)
	if err != nil {
		t.Fatal(err)
	}

	next, ok := r.NextAfter("javascript-basics", nil)
	if !ok || next.ID != "data-structures" {
		t.Errorf("NextAfter(javascript-basics) = %q, %v; want data-structures", next.ID, ok)
	}

	// hr-interview also needs aptitude-basics.
	if next, ok := r.NextAfter("databases", nil); ok {
		t.Errorf("NextAfter(databases) with aptitude not passed = %q, want none", next.ID)
	}

	next, ok = r.NextAfter("databases", Standings{"aptitude": {Passed: true}})
	if !ok || next.ID != "hr-interview" {
		t.Errorf("NextAfter(databases) = %q, %v; want hr-interview", next.ID, ok)
	}

	if _, ok := r.NextAfter("hr-interview", nil); ok {
		t.Error("the last module unlocks nothing")
	}
	if _, ok := r.NextAfter("ghost", nil); ok {
		t.Error("unknown module unlocks nothing")
	}
}

func TestForSet(t *testing.T) {
	r, err := Default(builtinSets)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := r.ForSet("dbms")
	if !ok || m.ID != "databases" {
		t.Errorf("ForSet(dbms) = %q, %v", m.ID, ok)
	}
	if _, ok := r.ForSet("community-os"); ok {
		t.Error("community sets have no module")
	}
}
