package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             20 * time.Millisecond,
		MaxRequestsHalfOpen: 2,
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()
	failing := func() error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(ctx, failing))
	}
	assert.Equal(t, StateOpen, cb.GetState())

	// While open, requests are rejected without calling fn.
	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	}
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(30 * time.Millisecond)

	// First probe after the timeout transitions to half-open; two successes
	// close the circuit again.
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	}
	time.Sleep(30 * time.Millisecond)

	_ = cb.Execute(ctx, func() error { return errors.New("still down") })
	assert.Equal(t, StateOpen, cb.GetState())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))

	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestCircuitBreaker_ExecuteWithResult(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	got, err := ExecuteWithResult(ctx, cb, func() (string, error) {
		return "value", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	wantErr := errors.New("boom")
	_, err = ExecuteWithResult(ctx, cb, func() (string, error) {
		return "", wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := New(testConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	}
	require.Equal(t, StateOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(ctx, func() error { return nil }))
}

func TestCircuitBreaker_GetStats(t *testing.T) {
	cb := New(testConfig())

	_ = cb.Execute(context.Background(), func() error { return errors.New("boom") })

	stats := cb.GetStats()
	assert.Equal(t, StateClosed, stats.State)
	assert.Equal(t, 1, stats.FailureCount)
	assert.False(t, stats.LastFailureTime.IsZero())
}
