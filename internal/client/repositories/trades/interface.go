// Package trades declares the remote trades table contract and its
// PostgreSQL implementation. Every statement is scoped by owner.
package trades

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

type Repository interface {
	// List returns the owner's trades by entry date, oldest first.
	List(ctx context.Context, userID string) ([]models.Trade, error)
	// ListClosedBetween returns trades whose exit date falls in [from, to],
	// by exit date.
	ListClosedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Trade, error)
	// Insert stores a new trade and returns the stored row.
	Insert(ctx context.Context, t models.Trade) (models.Trade, error)
	// Upsert creates or replaces a trade. A row with the same id owned by
	// someone else is left alone and common.ErrorUnauthorized is returned.
	Upsert(ctx context.Context, t models.Trade) error
	Delete(ctx context.Context, userID, id string) error
	DeleteMany(ctx context.Context, userID string, ids []string) (int64, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
	SetAttachment(ctx context.Context, userID, id, url string) error
}
