package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider(t *testing.T) {
	boom := errors.New("boom")
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Err: boom},
	)
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"a":2}`), StopReason: StopMaxTokens})
	ctx := context.Background()

	resp, err := mock.Generate(ctx, Request{System: "first"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 15, resp.Usage.Total())
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "mock", resp.Model)

	_, err = mock.Generate(ctx, Request{System: "second"})
	assert.ErrorIs(t, err, boom)

	resp, err = mock.Generate(ctx, Request{System: "third"})
	require.NoError(t, err)
	assert.Equal(t, StopMaxTokens, resp.StopReason)
	assert.Zero(t, mock.Remaining())

	_, err = mock.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.ErrorIs(t, err, errScriptExhausted)

	assert.Equal(t, 4, mock.CallCount())
	assert.Equal(t, "second", mock.Calls[1].System)
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, PurposeUnknown, PurposeFrom(ctx))
	assert.Equal(t, PurposeUnknown, PurposeFrom(WithPurpose(ctx, "")))
	assert.Equal(t, "quiz-gen", PurposeFrom(WithPurpose(ctx, "quiz-gen")))
}

func TestNameOf(t *testing.T) {
	assert.Equal(t, ProviderMock, nameOf(NewMockProvider()))
	assert.Equal(t, "slow", nameOf(slowProvider{}))
	assert.Equal(t, ProviderMock, nameOf(WithTimeout(WithRetry(NewMockProvider(), fastRetry(1)), 0)))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk"}}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"openrouter with key", Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "sk"}}, false},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"mock", Config{Provider: ProviderMock}, false},
		{"unknown", Config{Provider: "bard"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
