// Package services holds the resource facades of the journal client. Every
// remote access goes through one DataStore, which applies the same rules
// everywhere: a deadline per call, exponential retry for reads and queued
// writes, per-key deduplication of writes, connection status updates and a
// user notification for each outcome.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juju/clock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/tradejournal/internal/client/attachments"
	"github.com/dmitrijs2005/tradejournal/internal/client/metrics"
	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/opqueue"
	"github.com/dmitrijs2005/tradejournal/internal/client/remote"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/challenges"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/partialexits"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/trades"
	"github.com/dmitrijs2005/tradejournal/internal/client/retry"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

const (
	DefaultCallTimeout        = 10 * time.Second
	DefaultPartialExitTimeout = 5 * time.Second
)

// OwnerSource yields the authenticated user's ID, or "" when signed out.
type OwnerSource interface {
	UserID() string
}

type Repositories struct {
	Trades       trades.Repository
	Ledger       ledger.Repository
	Challenges   challenges.Repository
	PartialExits partialexits.Repository
	// Attachments may be nil when no bucket is configured.
	Attachments attachments.Store
}

type Options struct {
	CallTimeout        time.Duration
	PartialExitTimeout time.Duration
	Policy             retry.Policy
	// Limiter throttles outbound calls. Nil means unlimited.
	Limiter *rate.Limiter
	Clock   clock.Clock
	Metrics *metrics.Metrics
}

func (o *Options) setDefaults() {
	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	if o.PartialExitTimeout <= 0 {
		o.PartialExitTimeout = DefaultPartialExitTimeout
	}
	if o.Policy.MaxAttempts == 0 {
		o.Policy = retry.DefaultPolicy()
	}
	if o.Limiter == nil {
		o.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if o.Clock == nil {
		o.Clock = clock.WallClock
	}
	if o.Policy.Clock == nil {
		o.Policy.Clock = o.Clock
	}
}

// DataStore owns the shared queue, status tracker and notifier, and exposes
// one service per resource.
type DataStore struct {
	queue    *opqueue.Queue
	tracker  *status.Tracker
	notifier status.Notifier
	owner    OwnerSource
	log      logging.Logger
	opts     Options

	Trades       *TradeService
	Ledger       *LedgerService
	Challenges   *ChallengeService
	PartialExits *PartialExitService
	Attachments  *AttachmentService
}

func NewDataStore(repos Repositories, owner OwnerSource, tracker *status.Tracker, notifier status.Notifier,
	log logging.Logger, opts Options) *DataStore {
	opts.setDefaults()

	ds := &DataStore{
		queue:    opqueue.New(),
		tracker:  tracker,
		notifier: notifier,
		owner:    owner,
		log:      log,
		opts:     opts,
	}

	ds.queue.OnJoin = func(key string) {
		ds.log.Debug(context.Background(), "joined in-flight operation", "key", key)
		if m := ds.opts.Metrics; m != nil {
			m.ObserveJoin()
		}
	}
	if m := opts.Metrics; m != nil {
		tracker.OnChange(func(s status.ConnectionStatus) {
			m.SetStatus(int(s), s == status.Connected, tracker.LastSync())
		})
	}

	ds.Trades = &TradeService{ds: ds, repo: repos.Trades}
	ds.Ledger = &LedgerService{ds: ds, repo: repos.Ledger}
	ds.Challenges = &ChallengeService{ds: ds, repo: repos.Challenges}
	ds.PartialExits = &PartialExitService{ds: ds, repo: repos.PartialExits}
	ds.Attachments = &AttachmentService{ds: ds, store: repos.Attachments}
	return ds
}

func (ds *DataStore) Tracker() *status.Tracker { return ds.tracker }

func (ds *DataStore) Queue() *opqueue.Queue { return ds.queue }

// Snapshot is the result of LoadAll.
type Snapshot struct {
	Trades     []models.Trade
	Ledger     []models.LedgerEntry
	Challenges []models.Challenge
}

// LoadAll fetches trades, ledger and challenges concurrently. Each list
// reports its own failure; the first error is returned alongside whatever
// was loaded.
func (ds *DataStore) LoadAll(ctx context.Context) (Snapshot, error) {
	ds.tracker.Set(status.Syncing)

	var snap Snapshot
	var g errgroup.Group
	g.Go(func() (err error) {
		snap.Trades, err = ds.Trades.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Ledger, err = ds.Ledger.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Challenges, err = ds.Challenges.List(ctx)
		return err
	})
	err := g.Wait()

	if err == nil {
		equity := models.Equity(snap.Ledger, snap.Trades)
		for i := range snap.Challenges {
			snap.Challenges[i].UpdateProgress(equity)
		}
	}
	return snap, err
}

func (ds *DataStore) notify(ctx context.Context, msg string, sev status.Severity) {
	if ds.notifier != nil {
		ds.notifier.Notify(ctx, msg, sev)
	}
}

func (ds *DataStore) onRetry(ctx context.Context, ref opRef) retry.NotifyFunc {
	return func(err error, attempt int) {
		ds.log.Debug(ctx, "remote attempt failed", "op", ref.key(), "attempt", attempt, "error", err)
		if m := ds.opts.Metrics; m != nil {
			m.ObserveRetry(ref.label())
		}
	}
}

func (ds *DataStore) observe(op string, started time.Time, err error) {
	if m := ds.opts.Metrics; m != nil {
		m.ObserveCall(op, started, err)
	}
}

// call waits for the rate limiter, then runs fn under the deadline.
func call[T any](ctx context.Context, ds *DataStore, op string, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := ds.opts.Limiter.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return remote.Call(ctx, op, timeout, fn)
}

// opRef names one remote operation. The key carries the entity id and
// identifies the operation in the queue and logs; the label drops it and is
// what metrics are recorded under.
type opRef struct {
	verb     string
	resource string
	id       string
}

func newOpRef(verb, resource, id string) opRef {
	return opRef{verb: verb, resource: resource, id: id}
}

func (r opRef) key() string {
	if r.id == "" {
		return r.label()
	}
	return opqueue.Key(r.verb, r.resource, r.id)
}

func (r opRef) label() string {
	return r.verb + "-" + r.resource
}

// list runs an owner-scoped read with retry. On failure it returns an empty,
// non-nil slice with the error, after marking the connection down and
// notifying the user once.
func list[T any](ctx context.Context, ds *DataStore, resource string, ref opRef, timeout time.Duration,
	fn func(ctx context.Context, userID string) ([]T, error)) ([]T, error) {
	op := ref.key()
	userID := ds.owner.UserID()
	if userID == "" {
		return []T{}, remote.AuthRequired(op)
	}

	started := time.Now()
	items, err := retry.DoValue(ctx, ds.opts.Policy, ds.onRetry(ctx, ref), func(ctx context.Context) ([]T, error) {
		return call(ctx, ds, op, timeout, func(ctx context.Context) ([]T, error) {
			return fn(ctx, userID)
		})
	})
	ds.observe(ref.label(), started, err)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return []T{}, err
		}
		ds.tracker.Set(status.Disconnected)
		ds.log.Error(ctx, "load failed", "op", op, "error", err)
		ds.notify(ctx, loadFailedMessage(resource, err), status.Error)
		return []T{}, err
	}

	ds.tracker.Set(status.Connected)
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write runs fn once per key at a time, with retry. Callers that arrive
// while the key is in flight share its outcome, including the single
// notification.
func write[T any](ctx context.Context, ds *DataStore, ref opRef, action, success string, timeout time.Duration,
	fn func(ctx context.Context, userID string) (T, error)) (T, error) {
	var zero T
	key := ref.key()
	userID := ds.owner.UserID()
	if userID == "" {
		err := remote.AuthRequired(key)
		ds.notify(ctx, writeFailedMessage(action, err), status.Error)
		return zero, err
	}

	return opqueue.Do(ctx, ds.queue, key, func(ctx context.Context) (T, error) {
		started := time.Now()
		v, err := retry.DoValue(ctx, ds.opts.Policy, ds.onRetry(ctx, ref), func(ctx context.Context) (T, error) {
			return call(ctx, ds, key, timeout, func(ctx context.Context) (T, error) {
				return fn(ctx, userID)
			})
		})
		ds.observe(ref.label(), started, err)

		if err != nil {
			ds.tracker.Set(status.Disconnected)
			ds.log.Error(ctx, "write failed", "key", key, "error", err)
			ds.notify(ctx, writeFailedMessage(action, err), status.Error)
			return zero, fmt.Errorf("%w: %w", ErrDatabase, err)
		}

		ds.tracker.Set(status.Connected)
		ds.log.Info(ctx, "write succeeded", "key", key)
		if success != "" {
			ds.notify(ctx, success, status.Success)
		}
		return v, nil
	})
}

// bulk makes exactly one deadline-bounded attempt, outside the queue.
func bulk(ctx context.Context, ds *DataStore, op, action string, fn func(ctx context.Context, userID string) (int64, error)) (int64, error) {
	userID := ds.owner.UserID()
	if userID == "" {
		err := remote.AuthRequired(op)
		ds.notify(ctx, writeFailedMessage(action, err), status.Error)
		return 0, err
	}

	started := time.Now()
	n, err := call(ctx, ds, op, ds.opts.CallTimeout, func(ctx context.Context) (int64, error) {
		return fn(ctx, userID)
	})
	ds.observe(op, started, err)

	if err != nil {
		ds.tracker.Set(status.Disconnected)
		ds.log.Error(ctx, "bulk operation failed", "op", op, "error", err)
		ds.notify(ctx, writeFailedMessage(action, err), status.Error)
		return 0, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	ds.tracker.Set(status.Connected)
	return n, nil
}
