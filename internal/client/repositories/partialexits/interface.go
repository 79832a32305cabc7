// Package partialexits stores partial position closes of a trade.
package partialexits

import (
	"context"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

type Repository interface {
	// List returns the exits of one trade by exit date.
	List(ctx context.Context, userID, tradeID string) ([]models.PartialExit, error)
	Save(ctx context.Context, p models.PartialExit) error
	Delete(ctx context.Context, userID, id string) error
}
