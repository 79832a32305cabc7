// Package status tracks the client's view of connectivity to the remote
// service and carries user-facing notifications to whatever UI is attached.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

// ConnectionStatus is the indicator state shown to the user.
type ConnectionStatus int

const (
	Unknown ConnectionStatus = iota
	Connected
	Disconnected
	Syncing
)

// Text is the indicator label for s.
func (s ConnectionStatus) Text() string {
	switch s {
	case Connected:
		return "Synced"
	case Disconnected:
		return "Offline"
	case Syncing:
		return "Syncing..."
	default:
		return ""
	}
}

func (s ConnectionStatus) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Syncing:
		return "syncing"
	default:
		return "unknown"
	}
}

// Severity of a notification.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows a toast-style message.
type Notifier interface {
	Notify(ctx context.Context, msg string, sev Severity)
}

// Indicator renders the connection status.
type Indicator interface {
	SetStatus(s ConnectionStatus, text string)
}

// Tracker owns the current ConnectionStatus and the time of the last
// successful exchange with the remote service.
type Tracker struct {
	mu        sync.RWMutex
	status    ConnectionStatus
	lastSync  time.Time
	clock     clock.Clock
	indicator Indicator
	onChange  func(ConnectionStatus)
}

// NewTracker returns a Tracker in the Unknown state. indicator may be nil.
func NewTracker(clk clock.Clock, indicator Indicator) *Tracker {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Tracker{clock: clk, indicator: indicator}
}

// OnChange registers a hook called after every Set.
func (t *Tracker) OnChange(fn func(ConnectionStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Set records s and pushes it to the indicator. Connected also stamps the
// last sync time.
func (t *Tracker) Set(s ConnectionStatus) {
	t.mu.Lock()
	t.status = s
	if s == Connected {
		t.lastSync = t.clock.Now()
	}
	indicator, onChange := t.indicator, t.onChange
	t.mu.Unlock()

	if indicator != nil {
		indicator.SetStatus(s, s.Text())
	}
	if onChange != nil {
		onChange(s)
	}
}

func (t *Tracker) Status() ConnectionStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// LastSync returns the zero time until the first successful exchange.
func (t *Tracker) LastSync() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastSync
}

// SetIndicator attaches (or replaces) the UI indicator.
func (t *Tracker) SetIndicator(indicator Indicator) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.indicator = indicator
}

// LogNotifier writes notifications to a logger; it is the fallback when no
// UI is attached.
type LogNotifier struct {
	Log logging.Logger
}

func (n LogNotifier) Notify(ctx context.Context, msg string, sev Severity) {
	switch sev {
	case Error:
		n.Log.Error(ctx, msg, "severity", sev.String())
	case Warning:
		n.Log.Warn(ctx, msg, "severity", sev.String())
	default:
		n.Log.Info(ctx, msg, "severity", sev.String())
	}
}

// Notifiers fans a notification out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, msg string, sev Severity) {
	for _, n := range ns {
		n.Notify(ctx, msg, sev)
	}
}
