package roadmap

// State is a module's unlock state for one learner.
type State int

const (
	StateLocked    State = iota // A prerequisite is not passed
	StateAvailable              // Unlocked, never attempted
	StateAttempted              // Attempted, not yet passed
	StatePassed                 // Best attempt passed
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateAvailable:
		return "available"
	case StateAttempted:
		return "attempted"
	case StatePassed:
		return "passed"
	default:
		return "unknown"
	}
}

// Standing summarises a learner's attempts at one question set.
type Standing struct {
	Attempts  int
	BestScore int
	Passed    bool
}

// ModuleState pairs a module with its derived state.
type ModuleState struct {
	Module   Module
	State    State
	Standing Standing
}

// Standings maps question set IDs to the learner's standing.
type Standings map[string]Standing

func (st Standings) passed(setID string) bool {
	return st[setID].Passed
}

// StateOf derives the state of module id. Unknown IDs are Locked.
func (r *Roadmap) StateOf(id string, st Standings) State {
	m, ok := r.Module(id)
	if !ok {
		return StateLocked
	}
	s := st[m.SetID]
	switch {
	case s.Passed:
		return StatePassed
	case !r.unlocked(m, st):
		return StateLocked
	case s.Attempts > 0:
		return StateAttempted
	default:
		return StateAvailable
	}
}

// States returns every module's state in topological order.
func (r *Roadmap) States(st Standings) []ModuleState {
	mods := r.Modules()
	out := make([]ModuleState, 0, len(mods))
	for _, m := range mods {
		out = append(out, ModuleState{
			Module:   m,
			State:    r.StateOf(m.ID, st),
			Standing: st[m.SetID],
		})
	}
	return out
}

// Unlocked reports whether every prerequisite of module id is passed.
func (r *Roadmap) Unlocked(id string, st Standings) bool {
	m, ok := r.Module(id)
	if !ok {
		return false
	}
	return r.unlocked(m, st)
}

func (r *Roadmap) unlocked(m Module, st Standings) bool {
	for _, p := range m.Prerequisites {
		pm, ok := r.Module(p)
		if !ok || !st.passed(pm.SetID) {
			return false
		}
	}
	return true
}

// NextAfter returns the first module, in topological order, that becomes
// unlocked once module id is passed and is not itself passed yet. ok is
// false when passing id unlocks nothing new.
func (r *Roadmap) NextAfter(id string, st Standings) (next Module, ok bool) {
	m, found := r.Module(id)
	if !found {
		return Module{}, false
	}

	after := make(Standings, len(st)+1)
	for k, v := range st {
		after[k] = v
	}
	s := after[m.SetID]
	s.Passed = true
	after[m.SetID] = s

	for _, cand := range r.Modules() {
		if cand.ID == id || after.passed(cand.SetID) {
			continue
		}
		if !dependsOn(cand, id) {
			continue
		}
		if r.unlocked(cand, after) {
			return cand, true
		}
	}
	return Module{}, false
}

func dependsOn(m Module, id string) bool {
	for _, p := range m.Prerequisites {
		if p == id {
			return true
		}
	}
	return false
}
