package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Backoff computes the delay before each retry: InitialWait grown by
// Multiplier per attempt, capped at MaxWait, with up to a fifth of jitter
// either way.
type Backoff struct {
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// jitter returns a value in [-1, 1). Nil uses math/rand.
	jitter func() float64
}

// Delay is the wait after the given zero-based failed attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	d := float64(b.InitialWait)
	for range attempt {
		d *= b.Multiplier
		if d >= float64(b.MaxWait) {
			break
		}
	}
	if b.MaxWait > 0 && d > float64(b.MaxWait) {
		d = float64(b.MaxWait)
	}
	j := b.jitter
	if j == nil {
		j = func() float64 { return 2*rand.Float64() - 1 }
	}
	d += d * 0.2 * j()
	return max(time.Duration(d), 0)
}

// RetryProvider retries transient failures of the wrapped provider.
type RetryProvider struct {
	inner       Provider
	maxAttempts int
	backoff     Backoff
}

// WithRetry wraps p so transient failures are retried per cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{
		inner:       p,
		maxAttempts: max(cfg.MaxAttempts, 1),
		backoff:     Backoff{InitialWait: cfg.InitialWait, MaxWait: cfg.MaxWait, Multiplier: cfg.Multiplier},
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	invalidSeen := false
	for attempt := range r.maxAttempts {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case permanent:
			return nil, err
		case retryOnce:
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}
		if attempt == r.maxAttempts-1 {
			break
		}

		wait := r.backoff.Delay(attempt)
		if rl := (*ErrRateLimit)(nil); errors.As(err, &rl) && rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Name() string { return nameOf(r.inner) }

type retryClass int

const (
	transient retryClass = iota
	// retryOnce is for schema failures: a second sample often validates,
	// a third rarely does.
	retryOnce
	permanent
)

func classify(err error) retryClass {
	var (
		maxTok *ErrMaxTokensExceeded
		inv    *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return permanent
	case errors.As(err, &maxTok):
		return permanent
	case errors.As(err, &inv):
		return retryOnce
	}
	return transient
}
