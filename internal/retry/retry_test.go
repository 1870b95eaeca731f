package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff_WaitDuration(t *testing.T) {
	b := NewBackoff(10*time.Millisecond, 50*time.Millisecond, false)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, 0},
		{0, 10 * time.Millisecond},
		{1, 20 * time.Millisecond},
		{2, 40 * time.Millisecond},
		{3, 50 * time.Millisecond},
		{60, 50 * time.Millisecond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.WaitDuration(tt.attempt), "attempt %d", tt.attempt)
	}

	var nilBackoff *Backoff
	assert.Zero(t, nilBackoff.WaitDuration(3))
}

func TestBackoff_JitterStaysBelowCap(t *testing.T) {
	b := NewBackoff(time.Millisecond, 8*time.Millisecond, true)
	for attempt := 0; attempt < 20; attempt++ {
		w := b.WaitDuration(attempt)
		assert.GreaterOrEqual(t, w, time.Duration(0))
		assert.LessOrEqual(t, w, 8*time.Millisecond)
	}
}

func TestDo(t *testing.T) {
	transient := errors.New("transient")
	fatal := errors.New("fatal")

	tests := []struct {
		name      string
		failures  []error
		policy    Policy
		wantErr   error
		wantCalls int
		wantHooks int
	}{
		{
			name:      "succeeds first time",
			policy:    Policy{MaxRetries: 3},
			wantCalls: 1,
		},
		{
			name:      "recovers after transient failures",
			failures:  []error{transient, transient},
			policy:    Policy{MaxRetries: 3},
			wantCalls: 3,
			wantHooks: 2,
		},
		{
			name:      "gives up after max retries",
			failures:  []error{transient, transient, transient},
			policy:    Policy{MaxRetries: 2},
			wantErr:   transient,
			wantCalls: 3,
			wantHooks: 2,
		},
		{
			name:     "stops on non-retryable error",
			failures: []error{fatal},
			policy: Policy{
				MaxRetries:  5,
				ShouldRetry: func(err error) bool { return !errors.Is(err, fatal) },
			},
			wantErr:   fatal,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, hooks := 0, 0
			err := Do(context.Background(), tt.policy, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, func(error, int, time.Duration) { hooks++ })

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantHooks, hooks)
		})
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Policy{MaxRetries: 3}, func() error { calls++; return nil }, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
