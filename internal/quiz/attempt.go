// Package quiz sequences a single pass over a question set: answering,
// navigation, submission and retry.
package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/placeprep/internal/assessment"
)

var (
	// ErrAlreadySubmitted is returned for any change to a submitted attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")

	// ErrOptionOutOfRange is returned when a selected option does not exist
	// for the current question.
	ErrOptionOutOfRange = errors.New("option out of range")

	// ErrIncomplete is returned by Submit when a question is unanswered.
	ErrIncomplete = errors.New("attempt has unanswered questions")

	// ErrPositionOutOfRange is returned by Jump for a position outside the set.
	ErrPositionOutOfRange = errors.New("question position out of range")
)

// Phase is where an attempt is in its lifecycle.
type Phase int

const (
	PhaseNotStarted Phase = iota // No answer recorded yet
	PhaseInProgress              // At least one answer recorded
	PhaseSubmitted               // Scored; no further changes
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseInProgress:
		return "in progress"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Attempt is one learner's pass over a question set.
type Attempt struct {
	// ID is a fresh UUID per attempt, including retries.
	ID string

	// SetID identifies the question set (the gating context).
	SetID string

	Questions []assessment.Question

	StartedAt   time.Time
	SubmittedAt time.Time

	answers *assessment.AnswerSet
	cursor  int
	phase   Phase
	result  assessment.Result
}

// New starts an attempt over questions. The slice is not copied and must
// not be modified while the attempt is alive.
func New(setID string, questions []assessment.Question) *Attempt {
	return &Attempt{
		ID:        uuid.New().String(),
		SetID:     setID,
		Questions: questions,
		StartedAt: time.Now(),
		answers:   assessment.NewAnswerSet(),
	}
}

// Phase returns the current lifecycle phase.
func (a *Attempt) Phase() Phase { return a.phase }

// Cursor returns the current question position.
func (a *Attempt) Cursor() int { return a.cursor }

// Current returns the question at the cursor, or nil for an empty set.
func (a *Attempt) Current() *assessment.Question {
	if a.cursor < 0 || a.cursor >= len(a.Questions) {
		return nil
	}
	return &a.Questions[a.cursor]
}

// Selected returns the option chosen at position pos, if any.
func (a *Attempt) Selected(pos int) (int, bool) {
	return a.answers.Get(pos)
}

// AnsweredCount returns how many positions have an answer.
func (a *Attempt) AnsweredCount() int {
	n := 0
	for i := range a.Questions {
		if _, ok := a.answers.Get(i); ok {
			n++
		}
	}
	return n
}

// Select records option as the answer to the current question,
// overwriting any earlier choice.
func (a *Attempt) Select(option int) error {
	if a.phase == PhaseSubmitted {
		return ErrAlreadySubmitted
	}
	q := a.Current()
	if q == nil || !q.ValidOption(option) {
		return ErrOptionOutOfRange
	}
	a.answers.Set(a.cursor, option)
	a.phase = PhaseInProgress
	return nil
}

// Next moves the cursor forward one question. It reports whether the
// cursor moved.
func (a *Attempt) Next() bool {
	if a.phase == PhaseSubmitted || a.cursor >= len(a.Questions)-1 {
		return false
	}
	a.cursor++
	return true
}

// Prev moves the cursor back one question. It reports whether the cursor
// moved.
func (a *Attempt) Prev() bool {
	if a.phase == PhaseSubmitted || a.cursor == 0 {
		return false
	}
	a.cursor--
	return true
}

// Jump moves the cursor to pos.
func (a *Attempt) Jump(pos int) error {
	if a.phase == PhaseSubmitted {
		return ErrAlreadySubmitted
	}
	if pos < 0 || pos >= len(a.Questions) {
		return ErrPositionOutOfRange
	}
	a.cursor = pos
	return nil
}

// CanSubmit reports whether every question has an answer.
func (a *Attempt) CanSubmit() bool {
	return a.phase != PhaseSubmitted && assessment.IsComplete(a.Questions, a.answers)
}

// Submit scores a complete attempt.
func (a *Attempt) Submit(e *assessment.Engine) (assessment.Result, error) {
	if a.phase == PhaseSubmitted {
		return assessment.Result{}, ErrAlreadySubmitted
	}
	if !assessment.IsComplete(a.Questions, a.answers) {
		return assessment.Result{}, ErrIncomplete
	}
	return a.finish(e), nil
}

// SubmitEarly scores the attempt as it stands. Unanswered questions count
// as incorrect.
func (a *Attempt) SubmitEarly(e *assessment.Engine) (assessment.Result, error) {
	if a.phase == PhaseSubmitted {
		return assessment.Result{}, ErrAlreadySubmitted
	}
	return a.finish(e), nil
}

func (a *Attempt) finish(e *assessment.Engine) assessment.Result {
	a.result = e.Score(a.Questions, a.answers)
	a.phase = PhaseSubmitted
	a.SubmittedAt = time.Now()
	return a.result
}

// Result returns the submitted result. ok is false before submission.
func (a *Attempt) Result() (r assessment.Result, ok bool) {
	if a.phase != PhaseSubmitted {
		return assessment.Result{}, false
	}
	return a.result, true
}

// Reset returns a new attempt over the same questions with an empty
// answer set and a new ID. The receiver is left unchanged.
func (a *Attempt) Reset() *Attempt {
	return New(a.SetID, a.Questions)
}
