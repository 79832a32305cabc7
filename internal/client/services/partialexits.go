package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/partialexits"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/common"
)

// PartialExitService uses the shorter partial-exit deadline for every call.
type PartialExitService struct {
	ds   *DataStore
	repo partialexits.Repository
}

func (s *PartialExitService) List(ctx context.Context, tradeID string) ([]models.PartialExit, error) {
	return list(ctx, s.ds, "partial exits", newOpRef("list", "partial-exits", tradeID), s.ds.opts.PartialExitTimeout,
		func(ctx context.Context, userID string) ([]models.PartialExit, error) {
			return s.repo.List(ctx, userID, tradeID)
		})
}

func (s *PartialExitService) Save(ctx context.Context, p models.PartialExit) error {
	p.EnsureID()
	if p.TradeID == "" || !p.Quantity.IsPositive() {
		err := fmt.Errorf("%w: partial exit needs a trade and a positive quantity", common.ErrorValidation)
		s.ds.notify(ctx, err.Error(), status.Warning)
		return err
	}
	ref := newOpRef("save", "partial-exit", p.ID)
	_, err := write(ctx, s.ds, ref, "save partial exit", "Partial exit saved successfully", s.ds.opts.PartialExitTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			owned := p
			owned.UserID = userID
			return struct{}{}, s.repo.Save(ctx, owned)
		})
	return err
}

func (s *PartialExitService) Delete(ctx context.Context, id string) error {
	ref := newOpRef("delete", "partial-exit", id)
	_, err := write(ctx, s.ds, ref, "delete partial exit", "Partial exit deleted successfully", s.ds.opts.PartialExitTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			return struct{}{}, s.repo.Delete(ctx, userID, id)
		})
	return err
}
