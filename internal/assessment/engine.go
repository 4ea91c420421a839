package assessment

import "fmt"

// DefaultPassingThreshold is the pass mark used when none is configured.
const DefaultPassingThreshold = 75

// Result is the outcome of scoring one attempt. It is not mutated after
// Score returns it.
type Result struct {
	CorrectCount int
	TotalCount   int
	ScorePercent int
	Passed       bool

	// Threshold is the pass mark the result was judged against.
	Threshold int
}

// Engine scores answer sets against an answer key. It holds no state
// between calls.
type Engine struct {
	threshold int
}

// NewEngine creates an Engine with the given pass mark (0-100).
func NewEngine(threshold int) (*Engine, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	return &Engine{threshold: threshold}, nil
}

// DefaultEngine returns an Engine using DefaultPassingThreshold.
func DefaultEngine() *Engine {
	return &Engine{threshold: DefaultPassingThreshold}
}

// ValidateThreshold checks that a pass mark is a percentage.
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return fmt.Errorf("passing threshold must be in [0, 100], got %d", threshold)
	}
	return nil
}

// Threshold returns the configured pass mark.
func (e *Engine) Threshold() int {
	return e.threshold
}

// Score counts the answers that match each question's CorrectIndex.
// Unanswered positions count as incorrect, so an attempt may be scored
// before it is complete. An empty question set scores 0 and fails.
func (e *Engine) Score(questions []Question, answers *AnswerSet) Result {
	res := Result{
		TotalCount: len(questions),
		Threshold:  e.threshold,
	}

	for i, q := range questions {
		if opt, ok := answers.Get(i); ok && opt == q.CorrectIndex {
			res.CorrectCount++
		}
	}

	if res.TotalCount == 0 {
		return res
	}

	res.ScorePercent = RoundPercent(res.CorrectCount, res.TotalCount)
	res.Passed = res.ScorePercent >= e.threshold
	return res
}

// RoundPercent returns 100*part/whole rounded half-up, in integer
// arithmetic. whole must be positive.
func RoundPercent(part, whole int) int {
	return (200*part + whole) / (2 * whole)
}

// IsComplete reports whether every question position has an answer.
func IsComplete(questions []Question, answers *AnswerSet) bool {
	for i := range questions {
		if _, ok := answers.Get(i); !ok {
			return false
		}
	}
	return true
}
