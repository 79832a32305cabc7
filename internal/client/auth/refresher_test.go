package auth

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/tradejournal/internal/common"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

type tickClock struct {
	clock.Clock
	now   time.Time
	ticks chan time.Time
}

func (c *tickClock) Now() time.Time { return c.now }
func (c *tickClock) After(time.Duration) <-chan time.Time { return c.ticks }

type fakeRefresher struct {
	session   *Session
	err       error
	refreshed chan struct{}
	calls     atomic.Int32
}

func (f *fakeRefresher) Current() *Session { return f.session }

func (f *fakeRefresher) Refresh(ctx context.Context) (*Session, error) {
	f.calls.Add(1)
	f.refreshed <- struct{}{}
	return f.session, f.err
}

func TestRefreshDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	every := time.Minute

	assert.False(t, refreshDue(nil, now, every))
	assert.False(t, refreshDue(&Session{ExpiresAt: now.Add(10 * time.Minute)}, now, every))
	assert.True(t, refreshDue(&Session{ExpiresAt: now.Add(2 * time.Minute)}, now, every))
	assert.True(t, refreshDue(&Session{ExpiresAt: now.Add(-time.Second)}, now, every))
}

func TestRunRefresher_RefreshesNearExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := &tickClock{now: now, ticks: make(chan time.Time)}
	f := &fakeRefresher{
		session:   &Session{ExpiresAt: now.Add(30 * time.Second)},
		err:       common.ErrRefreshTokenExpired,
		refreshed: make(chan struct{}, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunRefresher(ctx, f, clk, time.Minute, logging.NewNop())
		close(done)
	}()

	clk.ticks <- now
	select {
	case <-f.refreshed:
	case <-time.After(time.Second):
		t.Fatal("refresh not attempted")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestRunRefresher_SkipsFreshSession(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := &tickClock{now: now, ticks: make(chan time.Time)}
	f := &fakeRefresher{
		session:   &Session{ExpiresAt: now.Add(time.Hour)},
		refreshed: make(chan struct{}, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunRefresher(ctx, f, clk, time.Minute, logging.NewNop())
		close(done)
	}()

	clk.ticks <- now
	clk.ticks <- now
	cancel()
	<-done
	assert.Zero(t, f.calls.Load())
}
