package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/clock"

	"github.com/dmitrijs2005/tradejournal/internal/client/attachments"
	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/challenges"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/partialexits"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/trades"
	"github.com/dmitrijs2005/tradejournal/internal/client/retry"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

type staticOwner string

func (o staticOwner) UserID() string { return string(o) }

type fixedClock struct {
	clock.Clock
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type notification struct {
	msg string
	sev status.Severity
}

type recordingNotifier struct {
	mu   sync.Mutex
	seen []notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg string, sev status.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, notification{msg, sev})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.seen...)
}

type recordingIndicator struct {
	mu  sync.Mutex
	set []status.ConnectionStatus
}

func (r *recordingIndicator) SetStatus(s status.ConnectionStatus, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = append(r.set, s)
}

func (r *recordingIndicator) all() []status.ConnectionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]status.ConnectionStatus(nil), r.set...)
}

type fakeTrades struct {
	trades.Repository
	calls       atomic.Int32
	list        func(ctx context.Context, userID string) ([]models.Trade, error)
	closed      func(ctx context.Context, userID string, from, to time.Time) ([]models.Trade, error)
	insert      func(ctx context.Context, t models.Trade) (models.Trade, error)
	upsert      func(ctx context.Context, t models.Trade) error
	del         func(ctx context.Context, userID, id string) error
	deleteMany  func(ctx context.Context, userID string, ids []string) (int64, error)
	deleteAll   func(ctx context.Context, userID string) (int64, error)
	attachments map[string]string
}

func (f *fakeTrades) List(ctx context.Context, userID string) ([]models.Trade, error) {
	f.calls.Add(1)
	return f.list(ctx, userID)
}

func (f *fakeTrades) ListClosedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Trade, error) {
	f.calls.Add(1)
	return f.closed(ctx, userID, from, to)
}

func (f *fakeTrades) Insert(ctx context.Context, t models.Trade) (models.Trade, error) {
	f.calls.Add(1)
	return f.insert(ctx, t)
}

func (f *fakeTrades) Upsert(ctx context.Context, t models.Trade) error {
	f.calls.Add(1)
	return f.upsert(ctx, t)
}

func (f *fakeTrades) Delete(ctx context.Context, userID, id string) error {
	f.calls.Add(1)
	return f.del(ctx, userID, id)
}

func (f *fakeTrades) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	f.calls.Add(1)
	return f.deleteMany(ctx, userID, ids)
}

func (f *fakeTrades) DeleteAll(ctx context.Context, userID string) (int64, error) {
	f.calls.Add(1)
	return f.deleteAll(ctx, userID)
}

func (f *fakeTrades) SetAttachment(ctx context.Context, userID, id, url string) error {
	f.calls.Add(1)
	if f.attachments == nil {
		f.attachments = map[string]string{}
	}
	f.attachments[id] = url
	return nil
}

type fakeLedger struct {
	ledger.Repository
	entries []models.LedgerEntry
	err     error
	saved   []models.LedgerEntry
}

func (f *fakeLedger) List(ctx context.Context, userID string) ([]models.LedgerEntry, error) {
	return f.entries, f.err
}

func (f *fakeLedger) Upsert(ctx context.Context, e models.LedgerEntry) error {
	f.saved = append(f.saved, e)
	return f.err
}

type fakeChallenges struct {
	challenges.Repository
	records []models.ChallengeRecord
	saved   []models.ChallengeRecord
}

func (f *fakeChallenges) List(ctx context.Context, userID string) ([]models.ChallengeRecord, error) {
	return f.records, nil
}

func (f *fakeChallenges) Upsert(ctx context.Context, c models.ChallengeRecord) error {
	f.saved = append(f.saved, c)
	return nil
}

type fakePartialExits struct {
	partialexits.Repository
	list func(ctx context.Context, userID, tradeID string) ([]models.PartialExit, error)
}

func (f *fakePartialExits) List(ctx context.Context, userID, tradeID string) ([]models.PartialExit, error) {
	return f.list(ctx, userID, tradeID)
}

type fakeStore struct {
	attachments.Store
	path string
	ct   string
	data []byte
	err  error
}

func (f *fakeStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	f.path, f.data, f.ct = path, data, contentType
	return f.err
}

func (f *fakeStore) PublicURL(path string) string { return "https://files.example.com/b/" + path }

type env struct {
	ds        *DataStore
	trades    *fakeTrades
	ledger    *fakeLedger
	chall     *fakeChallenges
	exits     *fakePartialExits
	store     *fakeStore
	notifier  *recordingNotifier
	indicator *recordingIndicator
	tracker   *status.Tracker
}

var testNow = time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

func newEnv(t *testing.T, owner string) *env {
	t.Helper()
	e := &env{
		trades:    &fakeTrades{},
		ledger:    &fakeLedger{},
		chall:     &fakeChallenges{},
		exits:     &fakePartialExits{},
		store:     &fakeStore{},
		notifier:  &recordingNotifier{},
		indicator: &recordingIndicator{},
	}
	e.tracker = status.NewTracker(fixedClock{now: testNow}, e.indicator)
	e.ds = NewDataStore(Repositories{
		Trades:       e.trades,
		Ledger:       e.ledger,
		Challenges:   e.chall,
		PartialExits: e.exits,
		Attachments:  e.store,
	}, staticOwner(owner), e.tracker, e.notifier, logging.NewNop(), Options{
		CallTimeout:        time.Second,
		PartialExitTimeout: 50 * time.Millisecond,
		Policy:             retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Clock: clock.WallClock},
		Clock:              fixedClock{now: testNow},
	})
	return e
}
