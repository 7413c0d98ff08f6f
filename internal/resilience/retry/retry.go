// Package retry executes operations with exponential backoff and
// context-based cancellation.
package retry

import (
	"context"
	"time"

	"github.com/vietddude/storyforge/internal/resilience/backoff"
)

// Policy defines retry behavior for a single Do call.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt,
	// so total attempts = MaxRetries + 1. Zero means a single attempt.
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool

	// RetryIf decides whether a failure is worth retrying.
	// Nil falls back to Retriable.
	RetryIf func(error) bool

	// OnRetry is invoked before each wait with the upcoming attempt
	// number (1-indexed), the computed delay and the error that
	// triggered the retry.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy provides sensible defaults for LLM and storage calls.
var DefaultPolicy = Policy{
	MaxRetries:    3,
	InitialDelay:  1 * time.Second,
	MaxDelay:      30 * time.Second,
	BackoffFactor: 2.0,
	Jitter:        true,
}

func (p Policy) backoff() backoff.Policy {
	return backoff.Policy{
		InitialDelay: p.InitialDelay,
		MaxDelay:     p.MaxDelay,
		Factor:       p.BackoffFactor,
		Jitter:       p.Jitter,
	}
}

// Do runs op until it succeeds, fails permanently, is cancelled, or the
// attempt budget is exhausted. The last error observed is returned as-is;
// exhaustion is never wrapped in a synthetic error.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), p Policy) (T, error) {
	var zero T

	retryIf := p.RetryIf
	if retryIf == nil {
		retryIf = Retriable
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		// Cancellation short-circuits before the predicate runs. The
		// caller's context is checked separately so a client-side timeout
		// error from op, which also matches context.DeadlineExceeded, is
		// still classified by the predicate while ctx is live.
		if Canceled(err) || ctx.Err() != nil {
			return zero, err
		}
		if attempt == p.MaxRetries || !retryIf(err) {
			return zero, err
		}

		delay := backoff.Delay(attempt, p.backoff())
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}
		if err := Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

// Sleep waits d, aborting early if ctx is cancelled. The timer is stopped
// on early return so no handle leaks.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
