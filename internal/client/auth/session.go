// Package auth authenticates journal users against the remote accounts
// table and publishes session changes to subscribers.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrNotSignedIn        = errors.New("not signed in")
)

// Session is an authenticated user with its tokens.
type Session struct {
	User         models.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type EventKind int

const (
	SignedIn EventKind = iota
	TokenRefreshed
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case TokenRefreshed:
		return "token_refreshed"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Event reports a session change. Session is nil for SignedOut.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Provider is the authentication collaborator.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context) (*Session, error)
	// Current returns a copy of the active session, or nil.
	Current() *Session
	// Subscribe delivers every later session change until the returned
	// cancel func is called.
	Subscribe() (<-chan Event, func())
}
