package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	scerrors "sjsage522/productscraper/pkg/errors"
)

// ErrRetriesExhausted is returned once every attempt has failed
var ErrRetriesExhausted = errors.New("max retries exceeded")

// FetchState is the state of a page fetch
type FetchState string

const (
	StateFetching  FetchState = "fetching"
	StateSuccess   FetchState = "success"
	StateRetryWait FetchState = "retry_wait"
	StateExhausted FetchState = "exhausted"
)

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the real Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retrier runs an operation up to MaxRetries times with a linear backoff
type Retrier struct {
	MaxRetries int
	Sleep      Sleeper

	// OnTransition, if set, observes every state change
	OnTransition func(attempt int, state FetchState, err error, wait time.Duration)
}

// NewRetrier creates a retrier that sleeps for real
func NewRetrier(maxRetries int) *Retrier {
	return &Retrier{
		MaxRetries: maxRetries,
		Sleep:      SleepContext,
	}
}

// Backoff returns the wait after the given failed attempt (1-based)
func (r *Retrier) Backoff(attempt int) time.Duration {
	return time.Duration(attempt*r.MaxRetries+3) * time.Second
}

// Do calls op until it succeeds, fails with a non-retryable error, or every
// attempt is used. The backoff also follows the final failed attempt.
func (r *Retrier) Do(ctx context.Context, op func(attempt int) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.MaxRetries; attempt++ {
		r.transition(attempt, StateFetching, nil, 0)

		err := op(attempt)
		if err == nil {
			r.transition(attempt, StateSuccess, nil, 0)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !scerrors.IsRetryable(err) {
			return err
		}
		lastErr = err

		wait := r.Backoff(attempt)
		r.transition(attempt, StateRetryWait, err, wait)
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}

	r.transition(r.MaxRetries, StateExhausted, lastErr, 0)
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, r.MaxRetries, lastErr)
}

func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep == nil {
		return SleepContext(ctx, d)
	}
	return r.Sleep(ctx, d)
}

func (r *Retrier) transition(attempt int, state FetchState, err error, wait time.Duration) {
	if r.OnTransition != nil {
		r.OnTransition(attempt, state, err, wait)
	}
}
