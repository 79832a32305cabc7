// Package profiles stores display names for accounts.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

type Repository interface {
	// Create inserts p unless a profile with its ID already exists.
	Create(ctx context.Context, p models.Profile) error
	Get(ctx context.Context, id string) (models.Profile, error)
	UpdateName(ctx context.Context, id, name string) error
}
