package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUntil_SucceedsImmediately(t *testing.T) {
	calls := 0
	ok := Until(context.Background(), Options{Attempts: 5, Interval: time.Millisecond}, func(context.Context) (bool, error) {
		calls++
		return true, nil
	})

	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

func TestUntil_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	ok := Until(context.Background(), Options{Attempts: 5, Interval: time.Millisecond}, func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})

	assert.True(t, ok)
	assert.Equal(t, 3, calls)
}

func TestUntil_ExhaustsAttempts(t *testing.T) {
	calls := 0
	ok := Until(context.Background(), Options{Attempts: 4, Interval: time.Millisecond}, func(context.Context) (bool, error) {
		calls++
		return false, nil
	})

	assert.False(t, ok)
	assert.Equal(t, 4, calls)
}

func TestUntil_TransientErrorDoesNotEndRun(t *testing.T) {
	calls := 0
	ok := Until(context.Background(), Options{Attempts: 3, Interval: time.Millisecond}, func(context.Context) (bool, error) {
		calls++
		if calls < 2 {
			return false, errors.New("mid-render read")
		}
		return true, nil
	})

	assert.True(t, ok)
	assert.Equal(t, 2, calls)
}

func TestUntil_ContextCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	ok := Until(ctx, Options{Attempts: 100, Interval: time.Millisecond}, func(context.Context) (bool, error) {
		calls++
		cancel()
		return false, nil
	})

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestUntil_ZeroOptionsUseDefaults(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, DefaultAttempts, opts.Attempts)
	assert.Equal(t, DefaultInterval, opts.Interval)
}

func TestDo_ReturnsNilOnSuccess(t *testing.T) {
	err := Do(context.Background(), 2, time.Millisecond, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestDo_RetriesAndReturnsLastError(t *testing.T) {
	calls := 0
	lastErr := errors.New("still failing")
	err := Do(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		return lastErr
	})

	assert.Equal(t, 3, calls)
	assert.Equal(t, lastErr, err)
}

func TestDo_SecondAttemptSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}
