// Package accounts stores sign-in credentials in the remote accounts table.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

type Repository interface {
	// Create inserts a and returns it with the generated ID. A duplicate
	// email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, a models.Account) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
}
