// Package llm talks to hosted language models. Question generation and the
// mentor both go through the Provider interface; vendor clients sit behind
// it and are wrapped with timeout, retry and event logging.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Named is implemented by providers that know which vendor they call.
// Wrappers forward it so the event log records the vendor, not the wrapper.
type Named interface {
	Name() string
}

// Request is one completion request.
type Request struct {
	System string

	// Messages is one user message for question generation and the
	// alternating transcript for the mentor.
	Messages []Message

	// Schema asks for structured output. Without it Content is raw text.
	Schema *Schema

	MaxTokens int

	// Temperature of zero leaves the vendor default in place.
	Temperature float64
}

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Role says who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the response must satisfy.
type Schema struct {
	// Name is kebab-case. It doubles as the OpenAI schema name and the
	// compiled-schema cache key, so it must be unique per definition.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason says why the model stopped producing output.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a completed generation.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// nameOf reports the vendor behind p, falling back to its model.
func nameOf(p Provider) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return p.ModelID()
}
