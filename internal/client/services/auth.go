package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/auth"
	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/remote"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/tradejournal/internal/common"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

// AuthService is the authentication facade used by the UI. It also serves
// as the OwnerSource of the DataStore.
type AuthService struct {
	provider auth.Provider
	profiles profiles.Repository
	timeout  time.Duration
	log      logging.Logger
}

func NewAuthService(provider auth.Provider, profiles profiles.Repository, timeout time.Duration, log logging.Logger) *AuthService {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &AuthService{provider: provider, profiles: profiles, timeout: timeout, log: log}
}

func (a *AuthService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return a.provider.SignIn(ctx, email, password)
}

// SignUp creates the account and then, best effort, its profile with the
// default display name.
func (a *AuthService) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	s, err := a.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	p := models.Profile{ID: s.User.ID, Name: models.DefaultProfileName, Email: s.User.Email}
	err = remote.Exec(ctx, "create-profile", a.timeout, func(ctx context.Context) error {
		return a.profiles.Create(ctx, p)
	})
	if err != nil {
		a.log.Warn(ctx, "profile creation failed", "user", s.User.ID, "error", err)
	}
	return s, nil
}

// SignOut never fails; revocation errors are logged.
func (a *AuthService) SignOut(ctx context.Context) {
	if err := a.provider.SignOut(ctx); err != nil {
		a.log.Warn(ctx, "sign out failed", "error", err)
	}
}

func (a *AuthService) CurrentUser() *models.User {
	s := a.provider.Current()
	if s == nil {
		return nil
	}
	u := s.User
	return &u
}

func (a *AuthService) UserID() string {
	if u := a.CurrentUser(); u != nil {
		return u.ID
	}
	return ""
}

// Profile returns the user's profile. A missing row is reported as the
// default profile.
func (a *AuthService) Profile(ctx context.Context) (models.Profile, error) {
	u := a.CurrentUser()
	if u == nil {
		return models.Profile{}, remote.AuthRequired("get-profile")
	}

	p, err := remote.Call(ctx, "get-profile", a.timeout, func(ctx context.Context) (models.Profile, error) {
		return a.profiles.Get(ctx, u.ID)
	})
	if errors.Is(err, common.ErrorNotFound) {
		return models.Profile{ID: u.ID, Name: models.DefaultProfileName, Email: u.Email}, nil
	}
	return p, err
}

// UpdateProfile sets the display name, creating the profile if needed.
func (a *AuthService) UpdateProfile(ctx context.Context, displayName string) error {
	u := a.CurrentUser()
	if u == nil {
		return remote.AuthRequired("update-profile")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("%w: display name is required", common.ErrorValidation)
	}

	return remote.Exec(ctx, "update-profile", a.timeout, func(ctx context.Context) error {
		err := a.profiles.UpdateName(ctx, u.ID, displayName)
		if errors.Is(err, common.ErrorNotFound) {
			return a.profiles.Create(ctx, models.Profile{ID: u.ID, Name: displayName, Email: u.Email})
		}
		return err
	})
}

// OnAuthChange subscribes to session changes.
func (a *AuthService) OnAuthChange() (<-chan auth.Event, func()) {
	return a.provider.Subscribe()
}
