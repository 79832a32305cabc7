// Package retry runs an operation with bounded exponential backoff on top of
// github.com/juju/retry.
package retry

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/dmitrijs2005/tradejournal/internal/client/remote"
)

// Policy bounds an operation's attempts. MaxAttempts counts every attempt,
// including the first: with MaxAttempts=3 the waits are BaseDelay and
// 2*BaseDelay.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// IsFatal stops retrying immediately. Defaults to !remote.IsRetryable.
	IsFatal func(error) bool
	// Clock drives the waits. Defaults to clock.WallClock.
	Clock clock.Clock
}

// DefaultPolicy is used by every queued write and list read.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Single makes exactly one attempt.
func Single() Policy {
	return Policy{MaxAttempts: 1, BaseDelay: time.Second}
}

// NotifyFunc observes each failed attempt (1-based) that is not fatal.
type NotifyFunc func(err error, attempt int)

// Delay returns the wait after the failed attempt with the given 1-based
// number: BaseDelay * 2^(attempt-1).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << (attempt - 1)
}

// Do calls fn until it succeeds, returns a fatal error, or MaxAttempts is
// reached; the last error from fn is returned as-is. Cancelling ctx stops a
// pending wait and returns ctx.Err().
func Do(ctx context.Context, p Policy, notify NotifyFunc, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Millisecond
	}
	if p.IsFatal == nil {
		p.IsFatal = func(err error) bool { return !remote.IsRetryable(err) }
	}
	if p.Clock == nil {
		p.Clock = clock.WallClock
	}

	var lastErr error
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			lastErr = fn(ctx)
			return lastErr
		},
		IsFatalError: p.IsFatal,
		NotifyFunc: func(err error, attempt int) {
			if notify != nil {
				notify(err, attempt)
			}
		},
		Attempts: p.MaxAttempts,
		Delay:    p.BaseDelay,
		BackoffFunc: func(_ time.Duration, attempt int) time.Duration {
			return p.Delay(attempt)
		},
		Clock: p.Clock,
		Stop:  ctx.Done(),
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if lastErr == nil {
		return err
	}
	return lastErr
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, notify NotifyFunc, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, notify, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
