package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/ledger"
	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/common"
)

type LedgerService struct {
	ds   *DataStore
	repo ledger.Repository
}

func (s *LedgerService) List(ctx context.Context) ([]models.LedgerEntry, error) {
	return list(ctx, s.ds, "ledger", newOpRef("list", "ledger", ""), s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) ([]models.LedgerEntry, error) {
			return s.repo.List(ctx, userID)
		})
}

func (s *LedgerService) Upsert(ctx context.Context, e models.LedgerEntry) error {
	e.EnsureID()
	if e.Amount.IsZero() {
		err := fmt.Errorf("%w: amount must not be zero", common.ErrorValidation)
		s.ds.notify(ctx, err.Error(), status.Warning)
		return err
	}
	ref := newOpRef("upsert", "ledger", e.ID)
	_, err := write(ctx, s.ds, ref, "save ledger entry", "Ledger entry saved successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			owned := e
			owned.UserID = userID
			return struct{}{}, s.repo.Upsert(ctx, owned)
		})
	return err
}

func (s *LedgerService) Delete(ctx context.Context, id string) error {
	ref := newOpRef("delete", "ledger", id)
	_, err := write(ctx, s.ds, ref, "delete ledger entry", "Ledger entry deleted successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			return struct{}{}, s.repo.Delete(ctx, userID, id)
		})
	return err
}
