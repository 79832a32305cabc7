package auth

import (
	"context"
	"errors"
	"time"

	"github.com/juju/clock"

	"github.com/dmitrijs2005/tradejournal/internal/common"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

// Refresher is the part of Provider that RunRefresher needs.
type Refresher interface {
	Current() *Session
	Refresh(ctx context.Context) (*Session, error)
}

// refreshDue reports whether s expires within the next two ticks.
func refreshDue(s *Session, now time.Time, every time.Duration) bool {
	return s != nil && !s.ExpiresAt.After(now.Add(2*every))
}

// RunRefresher checks the session every tick and refreshes it shortly
// before the access token expires. It returns when ctx is done.
func RunRefresher(ctx context.Context, p Refresher, clk clock.Clock, every time.Duration, log logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-clk.After(every):
		}

		if !refreshDue(p.Current(), clk.Now(), every) {
			continue
		}
		if _, err := p.Refresh(ctx); err != nil {
			if errors.Is(err, common.ErrRefreshTokenExpired) || errors.Is(err, common.ErrInvalidToken) {
				log.Warn(ctx, "session expired, signed out", "error", err)
				continue
			}
			log.Error(ctx, "session refresh failed", "error", err)
		}
	}
}
