package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartialExit closes part of a trade's position.
type PartialExit struct {
	ID        string
	TradeID   string
	UserID    string
	Quantity  decimal.Decimal
	ExitPrice decimal.Decimal
	ExitDate  time.Time
	Note      string
}

func (p *PartialExit) EnsureID() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
}

// RemainingQuantity returns what is left of trade after exits.
func RemainingQuantity(trade Trade, exits []PartialExit) decimal.Decimal {
	left := trade.Quantity
	for _, e := range exits {
		left = left.Sub(e.Quantity)
	}
	return left
}

func PartialExitFromFields(f Fields, now time.Time) (PartialExit, error) {
	p := PartialExit{
		ID:      f.String("id"),
		TradeID: f.String("trade_id"),
		Note:    f.String("note"),
	}
	if p.TradeID == "" {
		return PartialExit{}, errors.New("trade_id is required")
	}

	var err error
	if p.Quantity, err = f.Decimal("quantity"); err != nil {
		return PartialExit{}, err
	}
	if !p.Quantity.IsPositive() {
		return PartialExit{}, errors.New("quantity must be positive")
	}
	if p.ExitPrice, err = f.Decimal("exit_price"); err != nil {
		return PartialExit{}, err
	}
	if p.ExitDate, err = f.Date("exit_date", now); err != nil {
		return PartialExit{}, err
	}
	return p, nil
}
