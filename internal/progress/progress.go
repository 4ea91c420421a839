// Package progress records attempt results locally and forwards scores to
// remote sinks.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/roadmap"
	"github.com/abhisek/placeprep/internal/session"
	"github.com/abhisek/placeprep/internal/store"
)

// ScoreSink receives a learner's score for a content item.
type ScoreSink interface {
	SubmitScore(ctx context.Context, sess session.Session, contextID string, scorePercent int) error
}

// SinkFunc adapts a function to ScoreSink.
type SinkFunc func(ctx context.Context, sess session.Session, contextID string, scorePercent int) error

func (f SinkFunc) SubmitScore(ctx context.Context, sess session.Session, contextID string, scorePercent int) error {
	return f(ctx, sess, contextID, scorePercent)
}

// Service persists results and derives standings from them.
type Service struct {
	results store.ResultRepo
	sinks   []ScoreSink
	logger  *slog.Logger
}

// NewService creates a Service. A nil logger uses slog.Default().
func NewService(results store.ResultRepo, logger *slog.Logger, sinks ...ScoreSink) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{results: results, sinks: sinks, logger: logger}
}

// Record stores the full result locally, then forwards the score to every
// sink. A failing destination does not stop the others; all failures are
// joined into the returned error.
func (s *Service) Record(ctx context.Context, sess session.Session, attemptID, contextID string, res assessment.Result) error {
	var errs []error

	rec := &store.ResultRecord{
		AttemptID: attemptID,
		LearnerID: sess.LearnerID,
		ContextID: contextID,
		Result:    res,
	}
	if err := s.results.Append(ctx, rec); err != nil {
		s.logger.Warn("save result failed", "attempt", attemptID, "context", contextID, "err", err)
		errs = append(errs, fmt.Errorf("save result: %w", err))
	} else {
		s.logger.Info("result saved", "attempt", attemptID, "context", contextID,
			"score", res.ScorePercent, "passed", res.Passed, "sequence", rec.Sequence)
	}

	for i, sink := range s.sinks {
		if err := sink.SubmitScore(ctx, sess, contextID, res.ScorePercent); err != nil {
			s.logger.Warn("submit score failed", "sink", i, "context", contextID, "err", err)
			errs = append(errs, fmt.Errorf("submit score: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Standing returns the learner's best score and pass flag per context.
func (s *Service) Standing(ctx context.Context, sess session.Session) (roadmap.Standings, error) {
	rows, err := s.results.Standings(ctx, sess.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	out := make(roadmap.Standings, len(rows))
	for _, r := range rows {
		out[r.ContextID] = roadmap.Standing{
			Attempts:  r.Attempts,
			BestScore: r.BestScore,
			Passed:    r.Passed,
		}
	}
	return out, nil
}

// History returns the learner's results, newest first.
func (s *Service) History(ctx context.Context, sess session.Session, limit int) ([]store.ResultRecord, error) {
	return s.results.List(ctx, sess.LearnerID, store.QueryOpts{Limit: limit})
}

// Decide gates a result for the module that owns setID. On a pass the
// decision names the first module the pass unlocks, if any.
func Decide(rm *roadmap.Roadmap, setID string, st roadmap.Standings, res assessment.Result) assessment.Decision {
	next := ""
	if rm != nil && res.Passed {
		if m, ok := rm.ForSet(setID); ok {
			if n, ok := rm.NextAfter(m.ID, st); ok {
				next = n.ID
			}
		}
	}
	return assessment.Gate(res, next)
}
