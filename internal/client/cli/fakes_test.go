package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock"

	"github.com/dmitrijs2005/tradejournal/internal/client/auth"
	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/services"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct {
	clock.Clock
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// silence swaps printlnFn for a recorder for the duration of the test.
func silence(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(strings.ReplaceAll(fmt.Sprint(v), "\n", " "))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

type fakeAccounts struct {
	signInErr error
	signUpErr error
	email     string
	password  string
	profile   models.Profile
	renamed   string
}

func (f *fakeAccounts) SignIn(_ context.Context, email, password string) (*auth.Session, error) {
	f.email, f.password = email, password
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &auth.Session{User: models.User{ID: "u1", Email: email}}, nil
}

func (f *fakeAccounts) SignUp(_ context.Context, email, password string) (*auth.Session, error) {
	f.email, f.password = email, password
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &auth.Session{User: models.User{ID: "u1", Email: email}}, nil
}

func (f *fakeAccounts) Profile(context.Context) (models.Profile, error) { return f.profile, nil }

func (f *fakeAccounts) UpdateProfile(_ context.Context, name string) error {
	f.renamed = name
	return nil
}

type fakeSession struct {
	loggedIn  bool
	loggedOut bool
	page      string
	theme     string
	reloads   int
	snap      services.Snapshot
}

func (f *fakeSession) Logout(context.Context)                { f.loggedOut = true; f.loggedIn = false }
func (f *fakeSession) Navigate(_ context.Context, p string)  { f.page = p }
func (f *fakeSession) SetTheme(_ context.Context, th string) { f.theme = th }
func (f *fakeSession) Reload(context.Context) error          { f.reloads++; return nil }
func (f *fakeSession) LoggedIn() bool                        { return f.loggedIn }
func (f *fakeSession) Snapshot() services.Snapshot           { return f.snap }

type fakeTrades struct {
	list       []models.Trade
	added      []models.Trade
	upserted   []models.Trade
	deleted    []string
	deleteMany []string
	deleteAll  int
	from, to   time.Time
	listErr    error
}

func (f *fakeTrades) List(context.Context) ([]models.Trade, error) {
	if f.listErr != nil {
		return []models.Trade{}, f.listErr
	}
	return f.list, nil
}

func (f *fakeTrades) ListForCalendar(_ context.Context, from, to time.Time) ([]models.Trade, error) {
	f.from, f.to = from, to
	if f.listErr != nil {
		return []models.Trade{}, f.listErr
	}
	return f.list, nil
}

func (f *fakeTrades) Add(_ context.Context, t models.Trade) (models.Trade, error) {
	t.EnsureID()
	f.added = append(f.added, t)
	return t, nil
}

func (f *fakeTrades) Upsert(_ context.Context, t models.Trade) error {
	f.upserted = append(f.upserted, t)
	return nil
}

func (f *fakeTrades) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTrades) DeleteMany(_ context.Context, ids []string) (int64, error) {
	f.deleteMany = ids
	return int64(len(ids)), nil
}

func (f *fakeTrades) DeleteAll(context.Context) (int64, error) {
	f.deleteAll++
	return int64(len(f.list)), nil
}

type fakeLedger struct {
	list     []models.LedgerEntry
	upserted []models.LedgerEntry
	deleted  []string
	listErr  error
}

func (f *fakeLedger) List(context.Context) ([]models.LedgerEntry, error) {
	if f.listErr != nil {
		return []models.LedgerEntry{}, f.listErr
	}
	return f.list, nil
}

func (f *fakeLedger) Upsert(_ context.Context, e models.LedgerEntry) error {
	f.upserted = append(f.upserted, e)
	return nil
}

func (f *fakeLedger) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeChallenges struct {
	list     []models.Challenge
	upserted []models.Challenge
}

func (f *fakeChallenges) List(context.Context) ([]models.Challenge, error) {
	out := make([]models.Challenge, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeChallenges) Upsert(_ context.Context, c models.Challenge) error {
	f.upserted = append(f.upserted, c)
	return nil
}

func (f *fakeChallenges) Delete(context.Context, string) error { return nil }

type fakeExits struct {
	list  []models.PartialExit
	saved []models.PartialExit
}

func (f *fakeExits) List(context.Context, string) ([]models.PartialExit, error) { return f.list, nil }

func (f *fakeExits) Save(_ context.Context, p models.PartialExit) error {
	f.saved = append(f.saved, p)
	return nil
}

func (f *fakeExits) Delete(context.Context, string) error { return nil }

type fakeAttachments struct {
	tradeID, name, contentType string
	data                       []byte
}

func (f *fakeAttachments) AttachToTrade(_ context.Context, tradeID, name string, data []byte, ct string) (services.Upload, error) {
	f.tradeID, f.name, f.data, f.contentType = tradeID, name, data, ct
	return services.Upload{Path: "u1/" + name, PublicURL: "https://files.example.com/" + name}, nil
}

type fakeStatus struct {
	st   status.ConnectionStatus
	last time.Time
}

func (f fakeStatus) Status() status.ConnectionStatus { return f.st }
func (f fakeStatus) LastSync() time.Time             { return f.last }

type testEnv struct {
	app         *App
	out         *bytes.Buffer
	accounts    *fakeAccounts
	session     *fakeSession
	trades      *fakeTrades
	ledger      *fakeLedger
	challenges  *fakeChallenges
	exits       *fakeExits
	attachments *fakeAttachments
}

// newTestEnv builds an App reading input from the given lines.
func newTestEnv(input ...string) *testEnv {
	e := &testEnv{
		out:         &bytes.Buffer{},
		accounts:    &fakeAccounts{},
		session:     &fakeSession{loggedIn: true},
		trades:      &fakeTrades{},
		ledger:      &fakeLedger{},
		challenges:  &fakeChallenges{},
		exits:       &fakeExits{},
		attachments: &fakeAttachments{},
	}
	deps := Deps{
		Accounts:     e.accounts,
		Session:      e.session,
		Trades:       e.trades,
		Ledger:       e.ledger,
		Challenges:   e.challenges,
		PartialExits: e.exits,
		Attachments:  e.attachments,
		Status:       fakeStatus{st: status.Connected, last: testNow},
	}
	e.app = NewApp(deps, NewTerminal(e.out), strings.NewReader(strings.Join(input, "\n")+"\n"), e.out,
		fixedClock{now: testNow}, logging.NewNop())
	return e
}

func (e *testEnv) setInput(lines ...string) {
	e.app.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}
