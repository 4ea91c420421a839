package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// structuredMode is how a schema is requested from an OpenAI-compatible API.
type structuredMode int

const (
	// modeJSONSchema uses response_format json_schema.
	modeJSONSchema structuredMode = iota
	// modeToolCall forces a single function call whose arguments carry the
	// output. Most models routed through OpenRouter support tools but not
	// json_schema.
	modeToolCall
)

// OpenAIProvider calls an OpenAI-compatible chat completions API. It serves
// both OpenAI and OpenRouter.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
	mode   structuredMode
}

// NewOpenAIProvider creates a provider for OpenAI or, with BaseURL set, any
// compatible endpoint.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(conf),
		model:  resolveModel(ProviderOpenAI, cfg.Model),
		name:   ProviderOpenAI,
		mode:   modeJSONSchema,
	}, nil
}

// NewOpenRouterProvider creates a provider for OpenRouter. Model IDs are
// vendor-qualified ("google/gemini-2.0-flash-001") and sent unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	conf := openai.DefaultConfig(cfg.APIKey)
	conf.BaseURL = cfg.BaseURL
	if conf.BaseURL == "" {
		conf.BaseURL = defaultOpenRouterBaseURL
	}
	conf.HTTPClient = headerDoer{next: conf.HTTPClient, header: http.Header{"X-Title": {"PlacePrep"}}}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(conf),
		model:  cfg.Model,
		name:   ProviderOpenRouter,
		mode:   modeToolCall,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            openAIMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		if err := p.requestSchema(&chat, req.Schema); err != nil {
			return nil, err
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, classifyStatus(apiErr.HTTPStatusCode, err)
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("%s response has no choices", p.name)}
	}

	choice := resp.Choices[0]
	content := json.RawMessage(choice.Message.Content)
	if req.Schema != nil && p.mode == modeToolCall {
		if len(choice.Message.ToolCalls) == 0 {
			return nil, &ErrInvalidResponse{Content: content, Err: fmt.Errorf("%s response has no tool call", p.name)}
		}
		content = json.RawMessage(choice.Message.ToolCalls[0].Function.Arguments)
	}

	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return finish(req, content, usage, resp.Model, stop)
}

func (p *OpenAIProvider) requestSchema(chat *openai.ChatCompletionRequest, s *Schema) error {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	switch p.mode {
	case modeToolCall:
		name := toolName(s.Name)
		chat.Tools = []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: s.Description,
				Parameters:  json.RawMessage(def),
			},
		}}
		chat.ToolChoice = openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: name},
		}
	default:
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   s.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}
	return nil
}

func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Name() string { return p.name }

func openAIMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

// toolName turns a kebab-case schema name into a function name.
func toolName(schema string) string {
	b := []byte("submit_" + schema)
	for i, c := range b {
		if c == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}

// headerDoer adds fixed headers to every request.
type headerDoer struct {
	next   openai.HTTPDoer
	header http.Header
}

func (d headerDoer) Do(r *http.Request) (*http.Response, error) {
	for k, v := range d.header {
		r.Header[k] = v
	}
	return d.next.Do(r)
}
