// Package challenges persists challenge records. Only the ChallengeRecord
// projection is stored; UI progress never reaches the table.
package challenges

import (
	"context"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

type Repository interface {
	// List returns the owner's challenges, newest first.
	List(ctx context.Context, userID string) ([]models.ChallengeRecord, error)
	Upsert(ctx context.Context, c models.ChallengeRecord) error
	Delete(ctx context.Context, userID, id string) error
}
