package opqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, time.Millisecond)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "delete-trade-7", Key("delete", "trade", "7"))
	assert.Equal(t, "upsert-challenge-c1", Key("upsert", "challenge", "c1"))
}

func TestRun_ConcurrentCallersShareOneExecution(t *testing.T) {
	tests := []struct {
		name    string
		callers int
		err     error
	}{
		{"two callers success", 2, nil},
		{"five callers success", 5, nil},
		{"three callers failure", 3, errors.New("remote rejected")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := New()
			var execs atomic.Int32
			release := make(chan struct{})
			key := "delete-trade-7"

			fn := func(ctx context.Context) error {
				execs.Add(1)
				<-release
				return tc.err
			}

			results := make([]error, tc.callers)
			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				results[0] = q.Run(context.Background(), key, fn)
			}()
			waitFor(t, func() bool { return q.Pending(key) })

			for i := 1; i < tc.callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = q.Run(context.Background(), key, fn)
				}(i)
			}
			waitFor(t, func() bool { return q.Waiters(key) == tc.callers-1 })

			close(release)
			wg.Wait()

			assert.Equal(t, int32(1), execs.Load())
			for _, err := range results {
				assert.Equal(t, tc.err, err)
			}
			assert.False(t, q.Pending(key))
			assert.Equal(t, 0, q.Waiters(key))
			assert.Equal(t, 0, q.Len())
		})
	}
}

func TestDo_WaitersReceiveLeaderValue(t *testing.T) {
	q := New()
	release := make(chan struct{})
	var execs atomic.Int32
	key := "insert-trade-t1"

	fn := func(ctx context.Context) (string, error) {
		execs.Add(1)
		<-release
		return "stored-t1", nil
	}

	type res struct {
		v   string
		err error
	}
	out := make(chan res, 2)

	go func() {
		v, err := Do(context.Background(), q, key, fn)
		out <- res{v, err}
	}()
	waitFor(t, func() bool { return q.Pending(key) })
	go func() {
		v, err := Do(context.Background(), q, key, fn)
		out <- res{v, err}
	}()
	waitFor(t, func() bool { return q.Waiters(key) == 1 })
	close(release)

	for i := 0; i < 2; i++ {
		r := <-out
		require.NoError(t, r.err)
		assert.Equal(t, "stored-t1", r.v)
	}
	assert.Equal(t, int32(1), execs.Load())
}

func TestRun_SequentialCallsExecuteEachTime(t *testing.T) {
	q := New()
	calls := 0
	fn := func(ctx context.Context) error {
		calls++
		return nil
	}

	require.NoError(t, q.Run(context.Background(), "upsert-trade-1", fn))
	require.NoError(t, q.Run(context.Background(), "upsert-trade-1", fn))
	assert.Equal(t, 2, calls)
}

func TestRun_FailureClearsKey(t *testing.T) {
	q := New()
	boom := errors.New("boom")

	err := q.Run(context.Background(), "upsert-ledger-1", func(ctx context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, q.Pending("upsert-ledger-1"))

	err = q.Run(context.Background(), "upsert-ledger-1", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestRun_DifferentKeysRunConcurrently(t *testing.T) {
	q := New()
	release := make(chan struct{})
	var running atomic.Int32

	fn := func(ctx context.Context) error {
		running.Add(1)
		<-release
		return nil
	}

	var wg sync.WaitGroup
	for _, key := range []string{"delete-trade-1", "delete-trade-2", "delete-ledger-1"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_ = q.Run(context.Background(), key, fn)
		}(key)
	}

	waitFor(t, func() bool { return running.Load() == 3 })
	assert.Equal(t, 3, q.Len())
	close(release)
	wg.Wait()
	assert.Equal(t, 0, q.Len())
}

func TestRun_PanicReleasesWaitersAndKey(t *testing.T) {
	q := New()
	release := make(chan struct{})
	key := "delete-challenge-9"

	leaderPanic := make(chan any, 1)
	go func() {
		defer func() { leaderPanic <- recover() }()
		_ = q.Run(context.Background(), key, func(ctx context.Context) error {
			<-release
			panic("kaput")
		})
	}()
	waitFor(t, func() bool { return q.Pending(key) })

	waiterErr := make(chan error, 1)
	go func() {
		waiterErr <- q.Run(context.Background(), key, func(ctx context.Context) error { return nil })
	}()
	waitFor(t, func() bool { return q.Waiters(key) == 1 })
	close(release)

	assert.Equal(t, "kaput", <-leaderPanic)

	err := <-waiterErr
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, key, pe.Key)
	assert.Equal(t, "kaput", pe.Value)
	assert.False(t, q.Pending(key))
}

func TestRun_WaiterCancellationDoesNotAffectExecution(t *testing.T) {
	q := New()
	release := make(chan struct{})
	key := "upsert-trade-5"

	leaderErr := make(chan error, 1)
	go func() {
		leaderErr <- q.Run(context.Background(), key, func(ctx context.Context) error {
			<-release
			return nil
		})
	}()
	waitFor(t, func() bool { return q.Pending(key) })

	ctx, cancel := context.WithCancel(context.Background())
	waiterErr := make(chan error, 1)
	go func() {
		waiterErr <- q.Run(ctx, key, func(ctx context.Context) error { return nil })
	}()
	waitFor(t, func() bool { return q.Waiters(key) == 1 })

	cancel()
	assert.ErrorIs(t, <-waiterErr, context.Canceled)

	close(release)
	assert.NoError(t, <-leaderErr)
	assert.False(t, q.Pending(key))
}

func TestRun_LeaderCancellationDoesNotCancelSharedExecution(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawErr error
	err := q.Run(ctx, "upsert-trade-6", func(ctx context.Context) error {
		sawErr = ctx.Err()
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, sawErr)
}

func TestRun_OnJoinHook(t *testing.T) {
	var joined []string
	var mu sync.Mutex
	q := &Queue{OnJoin: func(key string) {
		mu.Lock()
		defer mu.Unlock()
		joined = append(joined, key)
	}}
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		_ = q.Run(context.Background(), "k", func(ctx context.Context) error { <-release; return nil })
		close(done)
	}()
	waitFor(t, func() bool { return q.Pending("k") })

	waiter := make(chan struct{})
	go func() {
		_ = q.Run(context.Background(), "k", func(ctx context.Context) error { return nil })
		close(waiter)
	}()
	waitFor(t, func() bool { return q.Waiters("k") == 1 })
	close(release)
	<-done
	<-waiter

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"k"}, joined)
}
