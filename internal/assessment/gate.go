package assessment

import "fmt"

// Decision is what the presentation layer does after a result: unlock the
// next content on a pass, offer a retry otherwise.
type Decision struct {
	Unlock bool

	// NextContentID names the content a pass unlocks. Empty when nothing
	// follows or the attempt failed.
	NextContentID string

	Retry   bool
	Message string
}

// Gate turns a result into an unlock decision. next is the content that a
// pass would unlock.
func Gate(r Result, next string) Decision {
	if r.Passed {
		return Decision{
			Unlock:        true,
			NextContentID: next,
			Message:       fmt.Sprintf("Passed! You scored %d%% (pass mark %d%%)", r.ScorePercent, r.Threshold),
		}
	}
	return Decision{
		Retry:   true,
		Message: fmt.Sprintf("Not yet. You scored %d%%, you need %d%% to pass", r.ScorePercent, r.Threshold),
	}
}
