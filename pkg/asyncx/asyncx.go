// Package asyncx holds the small concurrency helpers used for background
// work that must outlive the request that started it.
package asyncx

import (
	"context"
	"fmt"
	"time"
)

// Do runs fn in a goroutine. A panic in fn is recovered and passed to
// onPanic when it is non-nil.
func Do(fn func(), onPanic func(any)) {
	go func() {
		defer func() {
			if r := recover(); r != nil && onPanic != nil {
				onPanic(r)
			}
		}()
		fn()
	}()
}

// Detach runs fn in the background with a context that keeps parent's values
// but not its cancellation, bounded by timeout. The returned channel yields
// fn's result once and is then closed.
func Detach(parent context.Context, timeout time.Duration, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("asyncx: panic in detached task: %v", r)
			}
		}()

		done <- fn(ctx)
	}()

	return done
}

// RetryWithBackoff calls fn up to attempts times, doubling the delay between
// failures. It returns the last error, or ctx.Err() if ctx ends first.
func RetryWithBackoff[T any](
	ctx context.Context,
	attempts int,
	initialDelay time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	var (
		zero  T
		err   error
		delay = initialDelay
	)
	if attempts < 1 {
		attempts = 1
	}

	for i := range attempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var val T
		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return zero, err
}

// WithTimeout runs fn with a deadline and returns ctx.Err() if fn does not
// finish in time.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type res struct {
		v   T
		err error
	}

	ch := make(chan res, 1)
	go func() {
		v, err := fn(ctx)
		ch <- res{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
