// Package session connects authentication events to the UI: it tells a
// genuine login apart from a background token refresh, shows the right
// container, keeps the clock ticking and loads the user's data.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/dmitrijs2005/tradejournal/internal/client/auth"
	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/tradejournal/internal/client/services"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

const (
	DefaultPage     = "dashboard"
	DefaultTheme    = "light"
	LoadingName     = "Loading..."
	SignedOutNotice = "You have been signed out."
	clockInterval   = time.Second
)

// View is the UI surface driven by the bridge.
type View interface {
	ShowAuth()
	ShowApp()
	SetUserDisplayName(name string)
	SetPage(page string)
	SetClock(now time.Time)
	ApplyTheme(theme string)
}

// Account is the part of the auth facade the bridge uses.
type Account interface {
	SignOut(ctx context.Context)
	Profile(ctx context.Context) (models.Profile, error)
	OnAuthChange() (<-chan auth.Event, func())
}

// Loader fetches the user's data after a login.
type Loader interface {
	LoadAll(ctx context.Context) (services.Snapshot, error)
}

// Transition is how Handle classified a session change.
type Transition int

const (
	RealLogin Transition = iota + 1
	Refresh
	Logout
)

func (t Transition) String() string {
	switch t {
	case RealLogin:
		return "real login"
	case Refresh:
		return "refresh"
	case Logout:
		return "logout"
	default:
		return "none"
	}
}

type Bridge struct {
	view     View
	account  Account
	data     Loader
	prefs    prefs.Repository
	notifier status.Notifier
	clock    clock.Clock
	log      logging.Logger

	mu          sync.Mutex
	user        *models.User
	previous    *auth.Session
	initialLoad bool
	snapshot    services.Snapshot
	page        string
	stopClock   context.CancelFunc
}

func NewBridge(view View, account Account, data Loader, prefsRepo prefs.Repository, notifier status.Notifier,
	clk clock.Clock, log logging.Logger) *Bridge {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Bridge{
		view:        view,
		account:     account,
		data:        data,
		prefs:       prefsRepo,
		notifier:    notifier,
		clock:       clk,
		log:         log,
		initialLoad: true,
		page:        DefaultPage,
	}
}

// Run applies the current session (if any) as the initial load and then
// every auth event until ctx is done.
func (b *Bridge) Run(ctx context.Context, current *auth.Session) {
	events, unsubscribe := b.account.OnAuthChange()
	defer unsubscribe()

	b.Handle(ctx, current)

	for {
		select {
		case <-ctx.Done():
			b.haltClock()
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.log.Debug(ctx, "auth event", "kind", ev.Kind.String())
			b.Handle(ctx, ev.Session)
		}
	}
}

// Handle classifies s against the previous session and updates the UI.
func (b *Bridge) Handle(ctx context.Context, s *auth.Session) Transition {
	b.mu.Lock()
	if s == nil {
		b.mu.Unlock()
		b.toLoggedOut(ctx)
		return Logout
	}

	fresh := b.previous == nil || b.initialLoad || b.previous.User.ID != s.User.ID
	b.previous = s
	b.initialLoad = false
	user := s.User
	b.user = &user
	b.mu.Unlock()

	if !fresh {
		b.log.Debug(ctx, "credentials refreshed", "user", user.ID)
		return Refresh
	}

	b.login(ctx)
	return RealLogin
}

func (b *Bridge) login(ctx context.Context) {
	b.log.Info(ctx, "signed in", "user", b.User().ID)

	b.view.SetUserDisplayName(LoadingName)
	b.view.ShowApp()
	b.startClock(ctx)

	page := prefs.GetOr(ctx, b.prefs, prefs.KeyCurrentPage, DefaultPage)
	theme := prefs.GetOr(ctx, b.prefs, prefs.KeyTheme, DefaultTheme)

	snap, err := b.data.LoadAll(ctx)
	if err != nil {
		b.log.Warn(ctx, "initial load incomplete", "error", err)
	}

	b.mu.Lock()
	b.snapshot = snap
	b.page = page
	b.mu.Unlock()

	b.view.SetPage(page)
	b.view.ApplyTheme(theme)

	profile, err := b.account.Profile(ctx)
	if err != nil {
		b.log.Warn(ctx, "profile unavailable", "error", err)
		profile.Name = models.DefaultProfileName
	}
	b.view.SetUserDisplayName(profile.Name)
}

func (b *Bridge) toLoggedOut(ctx context.Context) {
	b.mu.Lock()
	b.user = nil
	b.previous = nil
	b.initialLoad = true
	b.snapshot = services.Snapshot{}
	b.mu.Unlock()

	b.haltClock()
	b.view.ShowAuth()
	b.log.Info(ctx, "signed out")
}

// Logout signs out, forces the logged-out UI whatever the provider says and
// tells the user.
func (b *Bridge) Logout(ctx context.Context) {
	b.account.SignOut(ctx)
	b.toLoggedOut(ctx)
	if b.notifier != nil {
		b.notifier.Notify(ctx, SignedOutNotice, status.Info)
	}
}

func (b *Bridge) startClock(ctx context.Context) {
	b.haltClock()

	clockCtx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.stopClock = cancel
	b.mu.Unlock()

	b.view.SetClock(b.clock.Now())
	go func() {
		for {
			select {
			case <-clockCtx.Done():
				return
			case <-b.clock.After(clockInterval):
				if clockCtx.Err() != nil {
					return
				}
				b.view.SetClock(b.clock.Now())
			}
		}
	}()
}

func (b *Bridge) haltClock() {
	b.mu.Lock()
	stop := b.stopClock
	b.stopClock = nil
	b.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Navigate shows page and remembers it for the next login.
func (b *Bridge) Navigate(ctx context.Context, page string) {
	b.mu.Lock()
	b.page = page
	b.mu.Unlock()

	b.view.SetPage(page)
	if err := b.prefs.Set(ctx, prefs.KeyCurrentPage, page); err != nil {
		b.log.Warn(ctx, "could not save page", "error", err)
	}
}

// SetTheme applies and remembers theme.
func (b *Bridge) SetTheme(ctx context.Context, theme string) {
	b.view.ApplyTheme(theme)
	if err := b.prefs.Set(ctx, prefs.KeyTheme, theme); err != nil {
		b.log.Warn(ctx, "could not save theme", "error", err)
	}
}

// Reload refetches every collection.
func (b *Bridge) Reload(ctx context.Context) error {
	snap, err := b.data.LoadAll(ctx)
	b.mu.Lock()
	b.snapshot = snap
	b.mu.Unlock()
	return err
}

func (b *Bridge) User() *models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.user == nil {
		return nil
	}
	u := *b.user
	return &u
}

func (b *Bridge) LoggedIn() bool { return b.User() != nil }

func (b *Bridge) Page() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

func (b *Bridge) Snapshot() services.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}
