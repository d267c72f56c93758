package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  2,
		BaseDelay:    time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		JitterFactor: 0,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	result, err := RetryWithResult(context.Background(), fastRetryConfig(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(errors.New("boom"), "", 503)
		}
		return "ok", nil
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return NewPermanentError(errors.New("bad request"), "", 400)
	})

	require.Error(t, err)
	require.Equal(t, 1, calls)
	require.True(t, IsPermanent(err))
}

func TestRetryTreatsUnclassifiedErrorAsPermanent(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("something odd")
	})

	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return NewTransientError(errors.New("still down"), "", 502)
	})

	require.Error(t, err)
	require.Equal(t, 3, calls)
	require.Contains(t, err.Error(), "all 3 attempts failed")
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, fastRetryConfig(), func(ctx context.Context) error {
		return NewTransientError(errors.New("down"), "", 503)
	})

	require.Error(t, err)
	require.Contains(t, err.Error(), "context cancelled")
}

func TestBackoffDelayHonorsRetryAfter(t *testing.T) {
	err := &TransientError{Err: errors.New("rate limited"), RetryAfter: 7}
	delay := backoffDelay(fastRetryConfig(), 0, err)
	require.Equal(t, 7*time.Second, delay)
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Millisecond,
	})

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error { return boom })
	}
	require.Equal(t, StateOpen, cb.State())

	err := cb.Allow()
	if err != nil {
		require.True(t, IsDegraded(err))
	}

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, cb.Allow())
	cb.Mark(nil)
	require.Equal(t, StateClosed, cb.State())
}

func TestIsTransientClassification(t *testing.T) {
	require.True(t, IsTransient(NewTransientError(errors.New("x"), "", 503)))
	require.False(t, IsTransient(NewPermanentError(errors.New("x"), "", 401)))
	require.False(t, IsTransient(nil))
	require.True(t, IsTransient(errors.New("dial tcp: connection refused")))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	require.True(t, IsTransientHTTPStatus(429))
	require.True(t, IsTransientHTTPStatus(503))
	require.False(t, IsTransientHTTPStatus(400))
	require.False(t, IsTransientHTTPStatus(200))
}
