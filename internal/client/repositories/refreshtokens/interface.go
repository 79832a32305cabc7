// Package refreshtokens persists the long-lived tokens used to renew an
// access token without asking for the password again.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	// Find returns common.ErrorNotFound for unknown tokens.
	Find(ctx context.Context, token string) (models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID string) error
}
