// Package mentor is a conversational placement-preparation helper backed by
// an LLM provider.
package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/abhisek/placeprep/internal/llm"
)

// PurposeMentor labels mentor requests in the LLM event log.
const PurposeMentor = "mentor"

// MaxHistory is the number of messages sent as context. It is even so the
// window always starts on a learner message.
const MaxHistory = 12

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// ReplySchema is the structured output the mentor asks for.
var ReplySchema = &llm.Schema{
	Name:        "mentor-reply",
	Description: "A mentor's answer to a placement-preparation question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"description": "The answer, plain text, at most a few short paragraphs",
			},
			"suggested_topics": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Question set IDs worth practising next, possibly empty",
			},
		},
		"required":             []any{"reply", "suggested_topics"},
		"additionalProperties": false,
	},
}

// Reply is one mentor answer.
type Reply struct {
	Text            string   `json:"reply"`
	SuggestedTopics []string `json:"suggested_topics"`
}

// Config tunes the mentor.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Topics are the question set IDs the mentor may suggest.
	Topics []string
}

// DefaultConfig returns the mentor defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 1024, Temperature: 0.4}
}

// Service holds one conversation. It is safe for concurrent use, though
// turns are serialised.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	history []llm.Message
}

// New creates a mentor over provider.
func New(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Ask sends question with the recent conversation and records both sides
// of the exchange. A failed request leaves the history untouched.
func (s *Service) Ask(ctx context.Context, question string) (Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, ErrEmptyQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(slices.Clone(window(s.history, MaxHistory-1)), llm.Message{Role: llm.RoleUser, Content: question})

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, PurposeMentor), llm.Request{
		System:      systemPrompt(s.cfg.Topics),
		Messages:    msgs,
		Schema:      ReplySchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("mentor: %w", err)
	}

	var r Reply
	if err := json.Unmarshal(resp.Content, &r); err != nil {
		return Reply{}, fmt.Errorf("mentor: decode reply: %w", err)
	}
	r.Text = strings.TrimSpace(r.Text)
	r.SuggestedTopics = s.knownTopics(r.SuggestedTopics)

	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: question},
		llm.Message{Role: llm.RoleAssistant, Content: r.Text},
	)
	s.history = window(s.history, MaxHistory)
	return r, nil
}

// History returns the retained conversation, oldest first.
func (s *Service) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Reset clears the conversation.
func (s *Service) Reset() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// window returns the last n messages, starting on a user message.
func window(msgs []llm.Message, n int) []llm.Message {
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	for len(msgs) > 0 && msgs[0].Role != llm.RoleUser {
		msgs = msgs[1:]
	}
	return msgs
}

// knownTopics drops suggestions outside the configured topics. With no
// topics configured every suggestion is kept.
func (s *Service) knownTopics(suggested []string) []string {
	if len(s.cfg.Topics) == 0 {
		return suggested
	}
	known := make(map[string]bool, len(s.cfg.Topics))
	for _, t := range s.cfg.Topics {
		known[t] = true
	}
	var out []string
	for _, t := range suggested {
		if known[t] {
			out = append(out, t)
		}
	}
	return out
}

func systemPrompt(topics []string) string {
	var b strings.Builder
	b.WriteString(`You are a mentor helping a college student prepare for campus placement drives:
aptitude tests, programming and CS fundamentals rounds, and HR interviews.

Answer the student's question directly and accurately. Prefer a short worked
example over a long explanation. If the question is outside placement
preparation, say so briefly and steer back.`)
	if len(topics) > 0 {
		b.WriteString("\n\nWhen practice would help, suggest question sets from this list only: ")
		b.WriteString(strings.Join(topics, ", "))
		b.WriteString(".")
	}
	return b.String()
}
