package retry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tradejournal/internal/client/remote"
)

// fakeClock records requested waits and fires them immediately.
type fakeClock struct {
	clock.Clock

	mu     sync.Mutex
	now    time.Time
	delays []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delays = append(c.delays, d)
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

// blockingClock never fires, so only Stop can end a wait.
type blockingClock struct {
	clock.Clock
}

func (blockingClock) Now() time.Time                         { return time.Time{} }
func (blockingClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

func TestDo_SucceedsFirstTry(t *testing.T) {
	clk := &fakeClock{}
	calls := 0

	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Second, Clock: clk}, nil, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, clk.waits())
}

func TestDo_RetriableFailure_ThreeAttemptsGeometricDelays(t *testing.T) {
	clk := &fakeClock{}
	boom := errors.New("network error")
	calls := 0
	var notified []int

	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Second, Clock: clk},
		func(err error, attempt int) { notified = append(notified, attempt) },
		func(ctx context.Context) error {
			calls++
			return boom
		})

	require.ErrorIs(t, err, boom)
	assert.Same(t, boom, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, clk.waits())
	require.GreaterOrEqual(t, len(notified), 2)
	assert.Equal(t, []int{1, 2}, notified[:2])
}

func TestDo_NonRetriable_SingleAttempt(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"timeout", remote.Timeout("Save trade", 10*time.Second)},
		{"auth", remote.AuthRequired("Save trade")},
		{"permission", &remote.Error{Op: "Save trade", Kind: remote.KindPermission}},
		{"cancelled", context.Canceled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clk := &fakeClock{}
			calls := 0

			err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Second, Clock: clk}, nil, func(ctx context.Context) error {
				calls++
				return tc.err
			})

			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, 1, calls)
			assert.Empty(t, clk.waits())
		})
	}
}

func TestDo_RecoversOnThirdAttempt(t *testing.T) {
	clk := &fakeClock{}
	calls := 0

	got, err := DoValue(context.Background(), Policy{MaxAttempts: 4, BaseDelay: 100 * time.Millisecond, Clock: clk}, nil, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, clk.waits())
}

func TestDo_CustomFatalPredicate(t *testing.T) {
	clk := &fakeClock{}
	stop := errors.New("stop")
	calls := 0

	err := Do(context.Background(), Policy{MaxAttempts: 5, BaseDelay: time.Second, Clock: clk, IsFatal: func(err error) bool {
		return errors.Is(err, stop)
	}}, nil, func(ctx context.Context) error {
		calls++
		if calls == 2 {
			return stop
		}
		return errors.New("again")
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, Policy{MaxAttempts: 3, BaseDelay: time.Hour, Clock: blockingClock{}}, nil, func(ctx context.Context) error {
			calls++
			return errors.New("network error")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("Do did not stop after cancel")
	}
}

func TestPolicy_Delay(t *testing.T) {
	p := Policy{BaseDelay: time.Second}
	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))

	assert.Equal(t, 3, DefaultPolicy().MaxAttempts)
	assert.Equal(t, 1, Single().MaxAttempts)
}
