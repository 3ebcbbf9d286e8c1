// Package retry provides a bounded retry-with-backoff wrapper for fallible
// operations.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Options configures Do. Zero values fall back to the defaults.
type Options struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// BaseDelay is the backoff before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration
	// Jitter draws the actual delay uniformly from [50%, 100%] of the
	// computed backoff.
	Jitter bool
	// OnRetry is invoked after every failed attempt with the error and the
	// 1-based attempt number.
	OnRetry func(err error, attempt int)
}

// DefaultOptions returns the standard retry policy: 5 attempts, 1s base
// delay doubling up to 8s, jittered.
func DefaultOptions() Options {
	return Options{
		Attempts:  5,
		BaseDelay: time.Second,
		MaxDelay:  8 * time.Second,
		Jitter:    true,
	}
}

// Do runs op up to opts.Attempts times, sleeping with exponential backoff
// between attempts. The last error is returned on final failure, never
// swallowed. No attempt is made after the last configured one, so there are
// attempts-1 delays in the worst case. The sleep respects ctx cancellation.
func Do(ctx context.Context, op func(ctx context.Context) error, opts Options) error {
	defaults := DefaultOptions()
	if opts.Attempts <= 0 {
		opts.Attempts = defaults.Attempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaults.BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaults.MaxDelay
	}

	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if opts.OnRetry != nil {
			opts.OnRetry(lastErr, attempt)
		}
		if attempt == opts.Attempts {
			break
		}
		if err := sleep(ctx, delay(attempt, opts)); err != nil {
			return err
		}
	}
	return lastErr
}

// Backoff computes the pre-jitter delay before the retry following the
// given 1-based attempt: base * 2^(attempt-1), capped at max.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}

func delay(attempt int, opts Options) time.Duration {
	d := Backoff(attempt, opts.BaseDelay, opts.MaxDelay)
	if opts.Jitter {
		half := d / 2
		d = half + time.Duration(rand.Int63n(int64(half)+1))
	}
	return d
}

// sleep waits for d without busy-waiting, returning early if ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
