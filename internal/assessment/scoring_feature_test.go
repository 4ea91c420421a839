package assessment

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
)

type scoringState struct {
	engine    *Engine
	questions []Question
	answers   *AnswerSet
	result    Result
}

func (s *scoringState) thePassMarkIs(threshold int) error {
	e, err := NewEngine(threshold)
	if err != nil {
		return err
	}
	s.engine = e
	return nil
}

func (s *scoringState) anAssessmentWithQuestions(n int) error {
	s.questions = make([]Question, n)
	for i := range s.questions {
		s.questions[i] = Question{
			ID:           fmt.Sprintf("q%d", i+1),
			Prompt:       fmt.Sprintf("Question %d", i+1),
			Options:      []string{"first", "second", "third"},
			CorrectIndex: i % 3,
		}
	}
	s.answers = NewAnswerSet()
	return nil
}

func (s *scoringState) theLearnerAnswers(correct, incorrect int) error {
	if correct+incorrect > len(s.questions) {
		return fmt.Errorf("cannot answer %d of %d questions", correct+incorrect, len(s.questions))
	}
	pos := 0
	for ; pos < correct; pos++ {
		s.answers.Set(pos, s.questions[pos].CorrectIndex)
	}
	for ; pos < correct+incorrect; pos++ {
		q := s.questions[pos]
		s.answers.Set(pos, (q.CorrectIndex+1)%len(q.Options))
	}
	s.result = s.engine.Score(s.questions, s.answers)
	return nil
}

func (s *scoringState) theLearnerSubmitsWithoutAnswering() error {
	s.result = s.engine.Score(s.questions, s.answers)
	return nil
}

func (s *scoringState) theScoreIs(want int) error {
	if s.result.ScorePercent != want {
		return fmt.Errorf("score = %d%%, want %d%%", s.result.ScorePercent, want)
	}
	return nil
}

func (s *scoringState) answersCounted(correct, total int) error {
	if s.result.CorrectCount != correct || s.result.TotalCount != total {
		return fmt.Errorf("counted %d of %d, want %d of %d",
			s.result.CorrectCount, s.result.TotalCount, correct, total)
	}
	return nil
}

func (s *scoringState) theLearnerHasPassed() error {
	if !s.result.Passed {
		return fmt.Errorf("expected a pass at %d%%", s.result.ScorePercent)
	}
	return nil
}

func (s *scoringState) theLearnerHasNotPassed() error {
	if s.result.Passed {
		return fmt.Errorf("expected a fail at %d%%", s.result.ScorePercent)
	}
	return nil
}

func (s *scoringState) theAssessmentIsNotComplete() error {
	if IsComplete(s.questions, s.answers) {
		return fmt.Errorf("expected the assessment to be incomplete")
	}
	return nil
}

func initializeScoringScenario(ctx *godog.ScenarioContext) {
	state := &scoringState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*state = scoringState{engine: DefaultEngine()}
		return ctx, nil
	})

	ctx.Step(`^the pass mark is (\d+) percent$`, state.thePassMarkIs)
	ctx.Step(`^an assessment with (\d+) questions$`, state.anAssessmentWithQuestions)
	ctx.Step(`^the learner answers (\d+) correctly and (\d+) incorrectly$`, state.theLearnerAnswers)
	ctx.Step(`^the learner submits without answering$`, state.theLearnerSubmitsWithoutAnswering)
	ctx.Step(`^the score is (\d+) percent$`, state.theScoreIs)
	ctx.Step(`^(\d+) of (\d+) answers are counted correct$`, state.answersCounted)
	ctx.Step(`^the learner has passed$`, state.theLearnerHasPassed)
	ctx.Step(`^the learner has not passed$`, state.theLearnerHasNotPassed)
	ctx.Step(`^the assessment is not complete$`, state.theAssessmentIsNotComplete)
}

func TestScoringFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "scoring",
		ScenarioInitializer: initializeScoringScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("scoring feature scenarios failed")
	}
}
