package assessment

// Question is a single multiple-choice item with exactly one correct option.
type Question struct {
	// ID is unique within its question set.
	ID string

	// Prompt is the question text shown to the learner.
	Prompt string

	// Options are identified by position. Order is fixed once created.
	Options []string

	// CorrectIndex is in [0, len(Options)).
	CorrectIndex int

	// Explanation is optional text shown after submission.
	Explanation string
}

// ValidOption reports whether idx names one of the question's options.
func (q Question) ValidOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options)
}

// AnswerSet maps question positions to the learner's chosen option index.
// An entry exists only for questions already answered.
type AnswerSet struct {
	choices map[int]int
}

// NewAnswerSet creates an empty AnswerSet.
func NewAnswerSet() *AnswerSet {
	return &AnswerSet{choices: make(map[int]int)}
}

// Set records (or overwrites) the chosen option for a position.
func (a *AnswerSet) Set(pos, option int) {
	if a.choices == nil {
		a.choices = make(map[int]int)
	}
	a.choices[pos] = option
}

// Get returns the chosen option for pos and whether one was recorded.
func (a *AnswerSet) Get(pos int) (int, bool) {
	if a == nil {
		return 0, false
	}
	opt, ok := a.choices[pos]
	return opt, ok
}

// Len returns the number of answered positions.
func (a *AnswerSet) Len() int {
	if a == nil {
		return 0
	}
	return len(a.choices)
}

// Clone returns an independent copy.
func (a *AnswerSet) Clone() *AnswerSet {
	c := NewAnswerSet()
	if a == nil {
		return c
	}
	for k, v := range a.choices {
		c.choices[k] = v
	}
	return c
}
