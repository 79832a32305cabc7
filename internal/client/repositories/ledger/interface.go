// Package ledger persists account cash movements in the remote ledger table.
package ledger

import (
	"context"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

type Repository interface {
	// List returns the owner's entries by date, oldest first.
	List(ctx context.Context, userID string) ([]models.LedgerEntry, error)
	Upsert(ctx context.Context, e models.LedgerEntry) error
	Delete(ctx context.Context, userID, id string) error
}
