package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Guard wraps a Provider with rate limiting and retries on transient errors
type Guard struct {
	provider        Provider
	limiter         *RateLimiter
	maxRetries      int
	initialInterval time.Duration
	maxElapsed      time.Duration
}

var _ Provider = (*Guard)(nil)

// NewGuard wraps p. A nil limiter disables throttling.
func NewGuard(p Provider, limiter *RateLimiter, maxRetries int) *Guard {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Guard{
		provider:        p,
		limiter:         limiter,
		maxRetries:      maxRetries,
		initialInterval: 500 * time.Millisecond,
		maxElapsed:      2 * time.Minute,
	}
}

func (g *Guard) Name() string {
	return g.provider.Name()
}

func (g *Guard) IsAvailable(ctx context.Context) bool {
	return g.provider.IsAvailable(ctx)
}

// Unwrap returns the guarded provider
func (g *Guard) Unwrap() Provider {
	return g.provider
}

func (g *Guard) Generate(ctx context.Context, req Request) (*Response, error) {
	key := g.provider.Name() + "/" + req.Model

	var resp *Response
	operation := func() error {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx, key); err != nil {
				return backoff.Permanent(err)
			}
		}

		r, err := g.provider.Generate(ctx, req)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = r
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = g.initialInterval
	strategy.MaxElapsedTime = g.maxElapsed

	policy := backoff.WithContext(backoff.WithMaxRetries(strategy, uint64(g.maxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).
			Str("provider", g.provider.Name()).
			Str("model", req.Model).
			Dur("retry_in", wait).
			Msg("LLM call failed, retrying")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return resp, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}
