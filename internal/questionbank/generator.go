package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/placeprep/internal/assessment"
	"github.com/abhisek/placeprep/internal/llm"
)

// PurposeQuizGen labels generation requests in the LLM event log.
const PurposeQuizGen = "quiz-gen"

// MaxGenerateCount bounds a single generation request.
const MaxGenerateCount = 20

// ErrNothingGenerated is returned when every generated question was rejected.
var ErrNothingGenerated = errors.New("no usable questions generated")

// GenerateInput describes a generation request.
type GenerateInput struct {
	Topic      string
	Difficulty string
	Count      int

	// PriorPrompts are prompts already in the bank for this topic. Generated
	// questions repeating one are rejected.
	PriorPrompts []string
}

// GeneratorConfig controls the LLMGenerator.
type GeneratorConfig struct {
	// Validators run in order on each generated question; the first failure
	// rejects that question.
	Validators []Validator

	MaxTokens       int
	Temperature     float64
	MaxPriorPrompts int
}

// DefaultGeneratorConfig returns the standard validator chain and limits.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:       2048,
		Temperature:     0.7,
		MaxPriorPrompts: 30,
	}
}

// Validator checks one generated question.
type Validator interface {
	Name() string
	Validate(q *assessment.Question, input GenerateInput) *RejectionError
}

// RejectionError explains why a generated question was dropped.
type RejectionError struct {
	Validator string
	Prompt    string
	Message   string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Batch is the result of one generation request.
type Batch struct {
	Topic     string
	Questions []assessment.Question
	Rejected  []*RejectionError
}

// LLMGenerator produces questions through an LLM provider. Its output is
// never added to a bank directly; callers queue it for review.
type LLMGenerator struct {
	provider llm.Provider
	config   GeneratorConfig
}

// NewGenerator creates an LLMGenerator.
func NewGenerator(provider llm.Provider, cfg GeneratorConfig) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type batchOutput struct {
	Questions []struct {
		Prompt       string   `json:"prompt"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correct_index"`
		Explanation  string   `json:"explanation"`
	} `json:"questions"`
}

// Generate asks the LLM for input.Count questions on input.Topic and
// returns the ones that pass every validator.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Batch, error) {
	if strings.TrimSpace(input.Topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if input.Count < 1 || input.Count > MaxGenerateCount {
		return nil, fmt.Errorf("count must be between 1 and %d, got %d", MaxGenerateCount, input.Count)
	}

	ctx = llm.WithPurpose(ctx, PurposeQuizGen)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	batch := &Batch{Topic: input.Topic}
	seen := append([]string(nil), input.PriorPrompts...)
	for _, rq := range raw.Questions {
		q := assessment.Question{
			ID:           "gen-" + uuid.New().String()[:8],
			Prompt:       strings.TrimSpace(rq.Prompt),
			Options:      rq.Options,
			CorrectIndex: rq.CorrectIndex,
			Explanation:  strings.TrimSpace(rq.Explanation),
		}

		in := input
		in.PriorPrompts = seen
		if rej := g.check(&q, in); rej != nil {
			batch.Rejected = append(batch.Rejected, rej)
			continue
		}
		batch.Questions = append(batch.Questions, q)
		seen = append(seen, q.Prompt)
	}

	if len(batch.Questions) == 0 {
		return batch, ErrNothingGenerated
	}
	return batch, nil
}

func (g *LLMGenerator) check(q *assessment.Question, input GenerateInput) *RejectionError {
	for _, v := range g.config.Validators {
		if rej := v.Validate(q, input); rej != nil {
			rej.Prompt = q.Prompt
			return rej
		}
	}
	return nil
}

// StructuralValidator checks prompt, option and answer-key shape.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *assessment.Question, _ GenerateInput) *RejectionError {
	if q.Prompt == "" {
		return &RejectionError{Validator: v.Name(), Message: "prompt is empty"}
	}
	if len(q.Prompt) > 500 {
		return &RejectionError{Validator: v.Name(), Message: "prompt exceeds 500 characters"}
	}
	if len(q.Options) < 2 {
		return &RejectionError{Validator: v.Name(), Message: fmt.Sprintf("needs at least 2 options, got %d", len(q.Options))}
	}

	distinct := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		key := normalize(o)
		if key == "" {
			return &RejectionError{Validator: v.Name(), Message: "option is empty"}
		}
		if distinct[key] {
			return &RejectionError{Validator: v.Name(), Message: fmt.Sprintf("duplicate option %q", o)}
		}
		distinct[key] = true
	}

	if !q.ValidOption(q.CorrectIndex) {
		return &RejectionError{Validator: v.Name(), Message: fmt.Sprintf("correct_index %d out of range", q.CorrectIndex)}
	}
	return nil
}

// DuplicateValidator rejects prompts already present in the bank or earlier
// in the same batch.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(q *assessment.Question, input GenerateInput) *RejectionError {
	key := normalize(q.Prompt)
	for _, p := range input.PriorPrompts {
		if normalize(p) == key {
			return &RejectionError{Validator: v.Name(), Message: "repeats an existing question"}
		}
	}
	return nil
}

// normalize folds case and collapses whitespace for comparisons.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
