// Package retry provides a bounded retry-until loop used wherever the
// engine must wait for asynchronous page rendering to settle.
package retry

import (
	"context"
	"time"
)

// DefaultAttempts is the default number of predicate evaluations.
const DefaultAttempts = 10

// DefaultInterval is the default delay between attempts.
const DefaultInterval = 200 * time.Millisecond

// Options controls the polling loop.
type Options struct {
	Attempts int
	Interval time.Duration
}

// DefaultOptions returns the standard bounded poll configuration.
func DefaultOptions() Options {
	return Options{Attempts: DefaultAttempts, Interval: DefaultInterval}
}

// Until polls predicate at a fixed interval until it returns true, the
// attempt budget is exhausted, or ctx is cancelled. It returns true if
// the predicate succeeded. Predicate errors end the run of attempts
// only when the context is done; otherwise the next attempt proceeds,
// since a transient page re-render can make any single read fail.
func Until(ctx context.Context, opts Options, predicate func(context.Context) (bool, error)) bool {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	for i := 0; i < opts.Attempts; i++ {
		ok, err := predicate(ctx)
		if ok && err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if i < opts.Attempts-1 {
			select {
			case <-time.After(opts.Interval):
			case <-ctx.Done():
				return false
			}
		}
	}
	return false
}

// Do runs fn up to attempts times, sleeping interval between failures,
// and returns the last error. Used for the single bounded write retry.
func Do(ctx context.Context, attempts int, interval time.Duration, fn func(context.Context) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i < attempts-1 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
