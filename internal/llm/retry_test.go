package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

var okResp = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockResponse{okResp}, false, 1},
		{"transient then ok", []MockResponse{down(), okResp}, false, 2},
		{"rate limited then ok", []MockResponse{{Err: &ErrRateLimit{Err: errors.New("429")}}, okResp}, false, 2},
		{"exhausted", []MockResponse{down(), down(), down(), okResp}, true, 3},
		{"truncation is final", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okResp}, true, 1},
		{"invalid retried once", []MockResponse{{Err: &ErrInvalidResponse{Err: errors.New("bad")}}, okResp}, false, 2},
		{"invalid twice is final", []MockResponse{
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			okResp,
		}, true, 2},
		{"cancelled is final", []MockResponse{{Err: context.Canceled}, okResp}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			_, err := WithRetry(mock, fastRetry(3)).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 30 * time.Millisecond, Err: errors.New("429")}}, okResp)
	start := time.Now()
	_, err := WithRetry(mock, fastRetry(2)).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	mock := NewMockProvider(down(), okResp)
	cfg := RetryConfig{MaxAttempts: 2, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ForwardsIdentity(t *testing.T) {
	p := WithRetry(NewMockProvider(), fastRetry(1))
	assert.Equal(t, "mock", p.ModelID())
	assert.Equal(t, ProviderMock, nameOf(p))
}

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 3, jitter: func() float64 { return 0 }}
	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 300*time.Millisecond, b.Delay(1))
	assert.Equal(t, 900*time.Millisecond, b.Delay(2))
	assert.Equal(t, time.Second, b.Delay(3))
	assert.Equal(t, time.Second, b.Delay(40))

	b.jitter = func() float64 { return 1 }
	assert.Equal(t, 120*time.Millisecond, b.Delay(0))
	b.jitter = func() float64 { return -1 }
	assert.Equal(t, 80*time.Millisecond, b.Delay(0))
}
