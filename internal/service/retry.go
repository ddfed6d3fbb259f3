package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
)

// RetryPolicy bounds how often a repository read is reattempted after a
// transient store fault. The delay is fixed, not exponential.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy mirrors the production defaults: three attempts with a
// one second pause between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Second}
}

// RetryQuery invokes op up to p.MaxAttempts times. Only faults tagged with
// domain.ErrStoreUnavailable are retried; every other error propagates
// immediately. Between attempts it waits p.Delay without holding anything
// beyond the calling goroutine, and aborts early when ctx is done.
//
// After exhausting all attempts the returned error still matches
// errors.Is(err, domain.ErrStoreUnavailable), so callers can map it to a
// service-unavailable response instead of a generic failure.
func RetryQuery[T any](ctx context.Context, p RetryPolicy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			return zero, err
		}

		slog.Warn("store unavailable", "attempt", attempt, "max_attempts", attempts, "error", err)

		if attempt < attempts {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, fmt.Errorf("%w after %d attempts", domain.ErrStoreUnavailable, attempts)
}
