package questionbank

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/placeprep/internal/llm"
)

const batchJSON = `{"questions":[
 {"prompt":"What does SQL stand for?","options":["Structured Query Language","Simple Query Language","Sequential Query Logic","Standard Question Language"],"correct_index":0,"explanation":"SQL is the Structured Query Language."},
 {"prompt":"Which key links two tables?","options":["Primary key","Foreign key","Candidate key","Super key"],"correct_index":1,"explanation":"A foreign key references another table."},
 {"prompt":"Broken","options":["only"],"correct_index":0,"explanation":"x"},
 {"prompt":"Out of range","options":["a","b"],"correct_index":5,"explanation":"x"},
 {"prompt":"Same options","options":["a","A "],"correct_index":0,"explanation":"x"},
 {"prompt":"what does  SQL stand for?","options":["a","b"],"correct_index":0,"explanation":"repeat"}
]}`

func TestGenerate_FiltersInvalidQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(batchJSON)})
	g := NewGenerator(mock, DefaultGeneratorConfig())

	batch, err := g.Generate(context.Background(), GenerateInput{Topic: "DBMS", Count: 6})
	require.NoError(t, err)

	require.Len(t, batch.Questions, 2)
	assert.Equal(t, "What does SQL stand for?", batch.Questions[0].Prompt)
	assert.Equal(t, 1, batch.Questions[1].CorrectIndex)
	assert.True(t, strings.HasPrefix(batch.Questions[0].ID, "gen-"))
	assert.NotEqual(t, batch.Questions[0].ID, batch.Questions[1].ID)

	require.Len(t, batch.Rejected, 4)
	assert.Equal(t, "structural", batch.Rejected[0].Validator)
	assert.Equal(t, "structural", batch.Rejected[1].Validator)
	assert.Equal(t, "structural", batch.Rejected[2].Validator)
	assert.Equal(t, "duplicate", batch.Rejected[3].Validator)
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(batchJSON)})
	g := NewGenerator(mock, DefaultGeneratorConfig())

	_, err := g.Generate(context.Background(), GenerateInput{
		Topic:        "DBMS",
		Difficulty:   "medium",
		Count:        3,
		PriorPrompts: []string{"Which constraint uniquely identifies each row?"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, BatchSchema, req.Schema)
	assert.Equal(t, systemPrompt, req.System)
	require.Len(t, req.Messages, 1)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Topic: DBMS")
	assert.Contains(t, msg, "Difficulty: medium")
	assert.Contains(t, msg, "Number of questions: 3")
	assert.Contains(t, msg, "1. Which constraint uniquely identifies each row?")
}

func TestGenerate_PriorPromptsRejected(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(batchJSON)})
	g := NewGenerator(mock, DefaultGeneratorConfig())

	batch, err := g.Generate(context.Background(), GenerateInput{
		Topic:        "DBMS",
		Count:        6,
		PriorPrompts: []string{"Which key links two tables?"},
	})
	require.NoError(t, err)
	require.Len(t, batch.Questions, 1)
	assert.Equal(t, "What does SQL stand for?", batch.Questions[0].Prompt)
}

func TestGenerate_AllRejected(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: []byte(`{"questions":[{"prompt":"","options":["a","b"],"correct_index":0,"explanation":""}]}`),
	})
	g := NewGenerator(mock, DefaultGeneratorConfig())

	batch, err := g.Generate(context.Background(), GenerateInput{Topic: "OS", Count: 1})
	assert.ErrorIs(t, err, ErrNothingGenerated)
	require.NotNil(t, batch)
	assert.Len(t, batch.Rejected, 1)
}

func TestGenerate_InputChecks(t *testing.T) {
	g := NewGenerator(llm.NewMockProvider(), DefaultGeneratorConfig())

	_, err := g.Generate(context.Background(), GenerateInput{Topic: " ", Count: 2})
	assert.Error(t, err)
	_, err = g.Generate(context.Background(), GenerateInput{Topic: "OS", Count: 0})
	assert.Error(t, err)
	_, err = g.Generate(context.Background(), GenerateInput{Topic: "OS", Count: MaxGenerateCount + 1})
	assert.Error(t, err)
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("slow down")}})
	g := NewGenerator(mock, DefaultGeneratorConfig())

	_, err := g.Generate(context.Background(), GenerateInput{Topic: "OS", Count: 2})
	var rl *llm.ErrRateLimit
	assert.True(t, errors.As(err, &rl))
}

func TestGenerate_MalformedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(`not json`)})
	g := NewGenerator(mock, DefaultGeneratorConfig())

	_, err := g.Generate(context.Background(), GenerateInput{Topic: "OS", Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse LLM response")
}
