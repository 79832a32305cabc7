package remote

import (
	"context"
	"errors"
	"time"
)

// Call runs fn under a deadline of timeout and returns its result, or a
// KindTimeout *Error naming op if the deadline fires first. The context
// handed to fn is cancelled when Call returns, so a request that loses the
// race is aborted and its late result dropped. Errors from fn are passed
// through Classify.
func Call[T any](ctx context.Context, op string, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)

	go func() {
		v, err := fn(callCtx)
		done <- result{v: v, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		if r.err == nil {
			return r.v, nil
		}
		if errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return zero, &Error{Op: op, Kind: KindTimeout, After: timeout, Err: r.err}
		}
		return zero, Classify(op, r.err)
	case <-callCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return zero, ctx.Err()
		}
		return zero, Timeout(op, timeout)
	}
}

// Exec is Call for operations without a result value.
func Exec(ctx context.Context, op string, timeout time.Duration, fn func(ctx context.Context) error) error {
	_, err := Call(ctx, op, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
