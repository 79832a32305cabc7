package services

import (
	"context"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/repositories/challenges"
)

type ChallengeService struct {
	ds   *DataStore
	repo challenges.Repository
}

// List returns the user's challenges, newest first, in their UI shape.
func (s *ChallengeService) List(ctx context.Context) ([]models.Challenge, error) {
	records, err := list(ctx, s.ds, "challenges", newOpRef("list", "challenges", ""), s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) ([]models.ChallengeRecord, error) {
			return s.repo.List(ctx, userID)
		})

	out := make([]models.Challenge, 0, len(records))
	for _, r := range records {
		out = append(out, r.Challenge())
	}
	return out, err
}

// Upsert stores the persisted projection of c; Progress and other UI state
// never leave the client.
func (s *ChallengeService) Upsert(ctx context.Context, c models.Challenge) error {
	c.EnsureID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.ds.opts.Clock.Now()
	}
	ref := newOpRef("upsert", "challenge", c.ID)
	_, err := write(ctx, s.ds, ref, "save challenge", "Challenge saved successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			return struct{}{}, s.repo.Upsert(ctx, c.Record(userID))
		})
	return err
}

func (s *ChallengeService) Delete(ctx context.Context, id string) error {
	ref := newOpRef("delete", "challenge", id)
	_, err := write(ctx, s.ds, ref, "delete challenge", "Challenge deleted successfully", s.ds.opts.CallTimeout,
		func(ctx context.Context, userID string) (struct{}, error) {
			return struct{}{}, s.repo.Delete(ctx, userID, id)
		})
	return err
}
