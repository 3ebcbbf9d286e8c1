package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(attempts int) Options {
	return Options{
		Attempts:  attempts,
		BaseDelay: time.Millisecond,
		MaxDelay:  4 * time.Millisecond,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastOptions(3))

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastErrorAfterAllAttempts(t *testing.T) {
	calls := 0
	lastErr := errors.New("boom 3")
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 3 {
			return lastErr
		}
		return errors.New("earlier")
	}, fastOptions(3))

	assert.Equal(t, 3, calls)
	assert.Equal(t, lastErr, err)
}

func TestDo_NoCallAfterLastAttempt(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("always")
	}, fastOptions(5))
	assert.Equal(t, 5, calls)
}

func TestDo_ObserverSeesEveryFailure(t *testing.T) {
	var attempts []int
	opts := fastOptions(3)
	opts.OnRetry = func(err error, attempt int) {
		attempts = append(attempts, attempt)
	}

	_ = Do(context.Background(), func(ctx context.Context) error {
		return errors.New("always")
	}, opts)

	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestDo_FirstSuccessNoObserver(t *testing.T) {
	called := false
	opts := fastOptions(3)
	opts.OnRetry = func(err error, attempt int) { called = true }

	err := Do(context.Background(), func(ctx context.Context) error { return nil }, opts)
	require.NoError(t, err)
	assert.False(t, called)
}

func TestDo_ContextCancelDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	opts := Options{Attempts: 5, BaseDelay: time.Minute, MaxDelay: time.Minute}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("fail")
	}, opts)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoff_ExponentialCapped(t *testing.T) {
	base := time.Second
	max := 8 * time.Second

	assert.Equal(t, 1*time.Second, Backoff(1, base, max))
	assert.Equal(t, 2*time.Second, Backoff(2, base, max))
	assert.Equal(t, 4*time.Second, Backoff(3, base, max))
	assert.Equal(t, 8*time.Second, Backoff(4, base, max))
	assert.Equal(t, 8*time.Second, Backoff(5, base, max))
	assert.Equal(t, 8*time.Second, Backoff(12, base, max))
}

func TestDelay_JitterStaysInRange(t *testing.T) {
	opts := Options{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Jitter: true}
	for i := 0; i < 100; i++ {
		d := delay(2, opts) // pre-jitter backoff is 200ms
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 200*time.Millisecond)
	}
}
