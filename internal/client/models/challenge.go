package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ChallengeActive    = "active"
	ChallengeCompleted = "completed"
)

// Challenge is a time-boxed trading goal as edited in the UI. Completed and
// Progress are UI state; only ChallengeRecord reaches the remote table.
type Challenge struct {
	ID              string
	Title           string
	Description     string
	Timeframe       string
	MaxRisk         decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	CreatedAt       time.Time
	Success         bool
	StartingCapital decimal.Decimal
	TargetCapital   decimal.Decimal

	Completed bool
	Progress  decimal.Decimal
}

// ChallengeRecord is the persisted projection of a Challenge.
type ChallengeRecord struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Timeframe       string
	MaxRisk         decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	CreatedAt       time.Time
	Success         bool
	StartingCapital decimal.Decimal
	TargetCapital   decimal.Decimal
	Status          string
}

var ErrInvalidChallenge = errors.New("invalid challenge")

func (c *Challenge) EnsureID() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
}

// Record projects c onto the persisted fields, owned by userID, with Status
// derived from Completed.
func (c Challenge) Record(userID string) ChallengeRecord {
	status := ChallengeActive
	if c.Completed {
		status = ChallengeCompleted
	}
	return ChallengeRecord{
		ID:              c.ID,
		UserID:          userID,
		Title:           c.Title,
		Description:     c.Description,
		Timeframe:       c.Timeframe,
		MaxRisk:         c.MaxRisk,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		CreatedAt:       c.CreatedAt,
		Success:         c.Success,
		StartingCapital: c.StartingCapital,
		TargetCapital:   c.TargetCapital,
		Status:          status,
	}
}

// Challenge turns a stored record back into the UI shape.
func (r ChallengeRecord) Challenge() Challenge {
	return Challenge{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Timeframe:       r.Timeframe,
		MaxRisk:         r.MaxRisk,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		CreatedAt:       r.CreatedAt,
		Success:         r.Success,
		StartingCapital: r.StartingCapital,
		TargetCapital:   r.TargetCapital,
		Completed:       r.Status == ChallengeCompleted,
	}
}

// UpdateProgress sets Progress to the share of the capital target reached
// by balance, in percent.
func (c *Challenge) UpdateProgress(balance decimal.Decimal) {
	goal := c.TargetCapital.Sub(c.StartingCapital)
	if !goal.IsPositive() {
		c.Progress = decimal.Zero
		return
	}
	c.Progress = balance.Sub(c.StartingCapital).Div(goal).Mul(decimal.NewFromInt(100)).Round(2)
}

func ChallengeFromFields(f Fields, now time.Time) (Challenge, error) {
	c := Challenge{
		ID:          f.String("id"),
		Title:       f.String("title"),
		Description: f.String("description"),
		Timeframe:   f.String("timeframe"),
		CreatedAt:   now,
		Success:     f.Bool("success"),
		Completed:   f.Bool("completed"),
	}
	if c.Title == "" {
		return Challenge{}, errors.Join(ErrInvalidChallenge, errors.New("title is required"))
	}

	var err error
	if c.MaxRisk, err = f.Decimal("max_risk"); err != nil {
		return Challenge{}, err
	}
	if c.StartingCapital, err = f.Decimal("starting_capital"); err != nil {
		return Challenge{}, err
	}
	if c.TargetCapital, err = f.Decimal("target_capital"); err != nil {
		return Challenge{}, err
	}
	if c.StartDate, err = f.Date("start_date", now); err != nil {
		return Challenge{}, err
	}
	if c.EndDate, err = f.Date("end_date", c.StartDate.AddDate(0, 1, 0)); err != nil {
		return Challenge{}, err
	}
	if c.EndDate.Before(c.StartDate) {
		return Challenge{}, errors.Join(ErrInvalidChallenge, errors.New("end date before start date"))
	}
	return c, nil
}
