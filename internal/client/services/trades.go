package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/trades"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
)

const resourceTrade = "trade"

type TradeService struct {
	ds   *DataStore
	repo trades.Repository
}

// List returns the user's trades, oldest entry first.
func (s *TradeService) List(ctx context.Context) ([]models.Trade, error) {
	return list(ctx, s.ds, "trades", newOpRef("list", "trades", ""), s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) ([]models.Trade, error) {
			return s.repo.List(ctx, userID)
		})
}

// ListForCalendar returns trades closed within [from, to], by exit date.
func (s *TradeService) ListForCalendar(ctx context.Context, from, to time.Time) ([]models.Trade, error) {
	return list(ctx, s.ds, "calendar", newOpRef("list", "calendar-trades", ""), s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) ([]models.Trade, error) {
			return s.repo.ListClosedBetween(ctx, userID, from, to)
		})
}

func (s *TradeService) validate(ctx context.Context, t models.Trade) error {
	if err := t.Validate(); err != nil {
		s.ds.notify(ctx, err.Error(), status.Warning)
		return err
	}
	return nil
}

// Add inserts a new trade and returns it as stored.
func (s *TradeService) Add(ctx context.Context, t models.Trade) (models.Trade, error) {
	t.EnsureID()
	if err := s.validate(ctx, t); err != nil {
		return models.Trade{}, err
	}
	ref := newOpRef("insert", resourceTrade, t.ID)
	return write(ctx, s.ds, ref, "save trade", "Trade saved successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (models.Trade, error) {
			return s.repo.Insert(ctx, t.Sanitized(userID))
		})
}

// Upsert creates or replaces t. The display-only status is stripped and
// the owner stamped before the row is sent.
func (s *TradeService) Upsert(ctx context.Context, t models.Trade) error {
	t.EnsureID()
	if err := s.validate(ctx, t); err != nil {
		return err
	}
	ref := newOpRef("upsert", resourceTrade, t.ID)
	_, err := write(ctx, s.ds, ref, "save trade", "Trade saved successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			return struct{}{}, s.repo.Upsert(ctx, t.Sanitized(userID))
		})
	return err
}

func (s *TradeService) Delete(ctx context.Context, id string) error {
	ref := newOpRef("delete", resourceTrade, id)
	_, err := write(ctx, s.ds, ref, "delete trade", "Trade deleted successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			return struct{}{}, s.repo.Delete(ctx, userID, id)
		})
	return err
}

// SetAttachment links an uploaded file to a trade.
func (s *TradeService) SetAttachment(ctx context.Context, id, url string) error {
	ref := newOpRef("save", "attachment", id)
	_, err := write(ctx, s.ds, ref, "attach file", "Attachment saved successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			return struct{}{}, s.repo.SetAttachment(ctx, userID, id, url)
		})
	return err
}

// DeleteMany removes the given trades in one statement. It is neither
// queued nor retried.
func (s *TradeService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	n, err := bulk(ctx, s.ds, "delete-many-trades", "delete trades",
		func(ctx context.Context, userID string) (int64, error) {
			return s.repo.DeleteMany(ctx, userID, ids)
		})
	if err == nil {
		s.ds.notify(ctx, fmt.Sprintf("Deleted %d trades", n), status.Success)
	}
	return n, err
}

// DeleteAll removes every trade of the user. It is neither queued nor
// retried.
func (s *TradeService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := bulk(ctx, s.ds, "delete-all-trades", "delete trades",
		func(ctx context.Context, userID string) (int64, error) {
			return s.repo.DeleteAll(ctx, userID)
		})
	if err == nil {
		s.ds.notify(ctx, "All trades deleted", status.Success)
	}
	return n, err
}
