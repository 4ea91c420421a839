package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/abhisek/placeprep/internal/store"
)

type fakeEvents struct {
	store.EventRepo
	got []store.LLMRequestEventData
	err error
}

func (f *fakeEvents) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	f.got = append(f.got, d)
	return f.err
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}

func TestNewProvider_ValidatesFirst(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil)
	if err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestNewProviderFromEnv_NotConfigured(t *testing.T) {
	clearLLMEnv(t)
	if _, err := NewProviderFromEnv(context.Background(), nil, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestWithLogging_RecordsEvent(t *testing.T) {
	events := &fakeEvents{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"reply":"hi"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 3},
	})
	p := WithLogging(mock, events, nil)

	ctx := WithPurpose(context.Background(), "mentor")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hello"}}}); err != nil {
		t.Fatal(err)
	}

	if len(events.got) != 1 {
		t.Fatalf("events = %d, want 1", len(events.got))
	}
	ev := events.got[0]
	if ev.Provider != ProviderMock || ev.Purpose != "mentor" || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 3 {
		t.Errorf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if ev.ResponseBody != `{"reply":"hi"}` {
		t.Errorf("ResponseBody = %q", ev.ResponseBody)
	}
	if want := "--- system\nsys\n--- user\nhello\n"; ev.RequestBody != want {
		t.Errorf("RequestBody = %q, want %q", ev.RequestBody, want)
	}
}

func TestWithLogging_NamesVendorThroughWrappers(t *testing.T) {
	events := &fakeEvents{}
	p := WithLogging(WithTimeout(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), time.Second), events, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
	if got := events.got[0].Provider; got != ProviderMock {
		t.Errorf("Provider = %q, want %q", got, ProviderMock)
	}
	if got := events.got[0].Purpose; got != PurposeUnknown {
		t.Errorf("Purpose = %q", got)
	}
}

func TestWithLogging_RecordsCancelledRequest(t *testing.T) {
	events := &fakeEvents{}
	p := WithLogging(slowProvider{}, events, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(events.got) != 1 || events.got[0].Success {
		t.Errorf("events = %+v", events.got)
	}
}

func TestWithLogging_EventFailureDoesNotFailRequest(t *testing.T) {
	events := &fakeEvents{err: errors.New("db closed")}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), events, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestWithLogging_RecordsFailure(t *testing.T) {
	events := &fakeEvents{}
	p := WithLogging(NewMockProvider(), events, nil)
	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error from empty mock")
	}
	if len(events.got) != 1 || events.got[0].Success || events.got[0].ErrorMessage == "" {
		t.Errorf("event = %+v", events.got)
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if p.ModelID() != "slow" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
		in    float64
	}{
		{"gpt-4o-mini", true, 0.15},
		{"claude-haiku-4-5-20251001", true, 1},
		{"google/gemini-2.0-flash-001", true, 0.1},
		{"mystery-model", false, 0},
	}
	for _, tt := range tests {
		c := LookupCost(tt.model)
		if (c != nil) != tt.found {
			t.Errorf("LookupCost(%q) found = %v, want %v", tt.model, c != nil, tt.found)
			continue
		}
		if c != nil && c.InputPerMTok != tt.in {
			t.Errorf("LookupCost(%q).InputPerMTok = %v, want %v", tt.model, c.InputPerMTok, tt.in)
		}
	}

	cost := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}.Cost(1_000_000, 200_000)
	if math.Abs(cost-2) > 1e-9 {
		t.Errorf("Cost = %v, want 2", cost)
	}
}
