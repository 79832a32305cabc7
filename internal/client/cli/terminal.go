package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/status"
)

// Terminal is the text rendition of the journal UI. It implements
// session.View, status.Notifier and status.Indicator; state changes are kept
// for the prompt and notifications are printed as they arrive.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	inApp  bool
	name   string
	page   string
	theme  string
	status string
	now    time.Time
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) ShowAuth() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inApp || t.name == "" {
		fmt.Fprintln(t.out, "Please sign in: type 'login' or 'register'.")
	}
	t.inApp = false
	t.name = ""
}

func (t *Terminal) ShowApp() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inApp = true
}

func (t *Terminal) SetUserDisplayName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.name = name
}

func (t *Terminal) SetPage(page string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = page
}

func (t *Terminal) SetClock(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

func (t *Terminal) ApplyTheme(theme string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.theme = theme
}

func (t *Terminal) SetStatus(_ status.ConnectionStatus, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = text
}

func (t *Terminal) Notify(_ context.Context, msg string, sev status.Severity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "[%s] %s\n", sev, msg)
}

// Prompt renders the REPL prompt: signed-in name, page, connection status and
// clock.
func (t *Terminal) Prompt() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inApp {
		return "journal> "
	}
	parts := []string{t.name, t.page}
	if t.status != "" {
		parts = append(parts, t.status)
	}
	if !t.now.IsZero() {
		parts = append(parts, t.now.Format("15:04"))
	}
	return fmt.Sprintf("journal (%s)> ", strings.Join(parts, " | "))
}

func (t *Terminal) Theme() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.theme
}
