package mentor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placeprep/internal/llm"
)

func replyJSON(text string, topics ...string) json.RawMessage {
	if topics == nil {
		topics = []string{}
	}
	b, _ := json.Marshal(Reply{Text: text, SuggestedTopics: topics})
	return b
}

func TestAsk_SendsHistoryAndSchema(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: replyJSON("Use a hash map.", "data-structures")},
		llm.MockResponse{Content: replyJSON("O(1) average.")},
	)
	m := New(mock, DefaultConfig())
	ctx := context.Background()

	r, err := m.Ask(ctx, "How do I find duplicates fast?")
	require.NoError(t, err)
	assert.Equal(t, "Use a hash map.", r.Text)
	assert.Equal(t, []string{"data-structures"}, r.SuggestedTopics)

	_, err = m.Ask(ctx, "  And the lookup cost? ")
	require.NoError(t, err)

	require.Equal(t, 2, mock.CallCount())
	second := mock.Calls[1]
	assert.Equal(t, "mentor-reply", second.Schema.Name)
	require.Len(t, second.Messages, 3)
	assert.Equal(t, llm.RoleUser, second.Messages[0].Role)
	assert.Equal(t, llm.RoleAssistant, second.Messages[1].Role)
	assert.Equal(t, "And the lookup cost?", second.Messages[2].Content)
	assert.Len(t, m.History(), 4)
}

func TestAsk_HistoryIsBounded(t *testing.T) {
	mock := llm.NewMockProvider()
	m := New(mock, DefaultConfig())
	for i := 0; i < 10; i++ {
		mock.AddResponse(llm.MockResponse{Content: replyJSON(fmt.Sprintf("answer %d", i))})
		_, err := m.Ask(context.Background(), fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	h := m.History()
	assert.Len(t, h, MaxHistory)
	assert.Equal(t, llm.RoleUser, h[0].Role)
	assert.Equal(t, "question 4", h[0].Content)

	last := mock.Calls[len(mock.Calls)-1]
	assert.LessOrEqual(t, len(last.Messages), MaxHistory)
	assert.Equal(t, llm.RoleUser, last.Messages[0].Role)
}

func TestAsk_FailureKeepsHistory(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: replyJSON("first")},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	m := New(mock, DefaultConfig())

	_, err := m.Ask(context.Background(), "one")
	require.NoError(t, err)
	_, err = m.Ask(context.Background(), "two")
	require.Error(t, err)

	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Len(t, m.History(), 2)
}

func TestAsk_FiltersUnknownTopics(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: replyJSON("Practise.", "dbms", "astrology")})
	m := New(mock, Config{Topics: []string{"dbms", "aptitude"}})

	r, err := m.Ask(context.Background(), "What next?")
	require.NoError(t, err)
	assert.Equal(t, []string{"dbms"}, r.SuggestedTopics)
	assert.Contains(t, mock.Calls[0].System, "dbms, aptitude")
}

func TestAsk_EmptyQuestion(t *testing.T) {
	m := New(llm.NewMockProvider(), DefaultConfig())
	_, err := m.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestReset(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: replyJSON("hi")})
	m := New(mock, DefaultConfig())
	_, err := m.Ask(context.Background(), "hello")
	require.NoError(t, err)

	m.Reset()
	assert.Empty(t, m.History())
}
