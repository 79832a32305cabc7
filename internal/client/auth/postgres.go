package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/refreshtokens"
	"github.com/dmitrijs2005/tradejournal/internal/common"
	"github.com/dmitrijs2005/tradejournal/internal/cryptox"
	"github.com/dmitrijs2005/tradejournal/internal/dbx"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

const (
	minPasswordLength  = 6
	refreshTokenBytes  = 32
	subscriberCapacity = 16
)

type Options struct {
	SecretKey       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Clock           clock.Clock
}

// PostgresProvider keeps credentials in the accounts table and rotates
// refresh tokens in refresh_tokens. The active session lives in memory.
type PostgresProvider struct {
	db       *sql.DB
	accounts func(dbx.DBTX) accounts.Repository
	tokens   func(dbx.DBTX) refreshtokens.Repository
	opts     Options
	log      logging.Logger

	mu      sync.RWMutex
	current *Session

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewPostgresProvider(db *sql.DB, opts Options, log logging.Logger) *PostgresProvider {
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = 15 * time.Minute
	}
	if opts.RefreshTokenTTL <= 0 {
		opts.RefreshTokenTTL = 30 * 24 * time.Hour
	}
	return &PostgresProvider{
		db: db,
		accounts: func(tx dbx.DBTX) accounts.Repository {
			return accounts.NewPostgresRepository(tx)
		},
		tokens: func(tx dbx.DBTX) refreshtokens.Repository {
			return refreshtokens.NewPostgresRepository(tx)
		},
		opts: opts,
		log:  log,
		subs: make(map[int]chan Event),
	}
}

func normalizeCredentials(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || password == "" {
		return "", ErrInvalidCredentials
	}
	return email, nil
}

func (p *PostgresProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeCredentials(email, password)
	if err != nil {
		return nil, err
	}

	acc, err := p.accounts(p.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)
	if !cryptox.CheckPassword(pw, acc.Salt, acc.Verifier) {
		return nil, ErrInvalidCredentials
	}

	s, err := p.issue(ctx, p.db, acc.User())
	if err != nil {
		return nil, err
	}
	p.setSession(s, SignedIn)
	return s.clone(), nil
}

func (p *PostgresProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidCredentials, minPasswordLength)
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)
	salt := cryptox.NewSalt()

	var s *Session
	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		acc, err := p.accounts(tx).Create(ctx, models.Account{
			Email:    email,
			Salt:     salt,
			Verifier: cryptox.NewVerifier(pw, salt),
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return ErrAccountExists
			}
			return err
		}
		s, err = p.issue(ctx, tx, acc.User())
		return err
	})
	if err != nil {
		return nil, err
	}

	p.setSession(s, SignedIn)
	return s.clone(), nil
}

// SignOut revokes the refresh token. The local session is dropped even if
// revocation fails.
func (p *PostgresProvider) SignOut(ctx context.Context) error {
	p.mu.RLock()
	cur := p.current
	p.mu.RUnlock()
	if cur == nil {
		return nil
	}

	err := p.tokens(p.db).Delete(ctx, cur.RefreshToken)
	p.setSession(nil, SignedOut)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Refresh rotates the refresh token and issues a new access token for the
// same user.
func (p *PostgresProvider) Refresh(ctx context.Context) (*Session, error) {
	p.mu.RLock()
	cur := p.current
	p.mu.RUnlock()
	if cur == nil {
		return nil, ErrNotSignedIn
	}

	var s *Session
	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := p.tokens(tx)

		rt, err := tokens.Find(ctx, cur.RefreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return err
		}
		if err := tokens.Delete(ctx, rt.Token); err != nil {
			return err
		}
		if p.opts.Clock.Now().After(rt.Expires) {
			return common.ErrRefreshTokenExpired
		}

		s, err = p.issue(ctx, tx, cur.User)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrRefreshTokenExpired) {
			p.setSession(nil, SignedOut)
		}
		return nil, err
	}

	p.setSession(s, TokenRefreshed)
	return s.clone(), nil
}

func (p *PostgresProvider) Current() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.clone()
}

func (p *PostgresProvider) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberCapacity)

	p.subMu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	p.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subs, id)
			close(ch)
			p.subMu.Unlock()
		})
	}
}

func (p *PostgresProvider) issue(ctx context.Context, db dbx.DBTX, user models.User) (*Session, error) {
	now := p.opts.Clock.Now()

	access, err := GenerateToken(user.ID, user.Email, p.opts.SecretKey, now, p.opts.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := p.tokens(db).Create(ctx, user.ID, refresh, now.Add(p.opts.RefreshTokenTTL)); err != nil {
		return nil, err
	}

	return &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(p.opts.AccessTokenTTL),
	}, nil
}

func (p *PostgresProvider) setSession(s *Session, kind EventKind) {
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()

	p.broadcast(Event{Kind: kind, Session: s.clone()})
}

func (p *PostgresProvider) broadcast(ev Event) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for id, ch := range p.subs {
		select {
		case ch <- ev:
		default:
			p.log.Warn(context.Background(), "auth event dropped, subscriber is not reading", "subscriber", id, "event", ev.Kind.String())
		}
	}
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
