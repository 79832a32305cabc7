package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// TradeStatus is derived for display and never stored.
type TradeStatus string

const (
	TradeOpen      TradeStatus = "open"
	TradeWin       TradeStatus = "win"
	TradeLoss      TradeStatus = "loss"
	TradeBreakeven TradeStatus = "breakeven"
)

type Trade struct {
	ID            string
	UserID        string
	Asset         string
	Direction     Direction
	EntryPrice    decimal.Decimal
	ExitPrice     decimal.NullDecimal
	Quantity      decimal.Decimal
	PnL           decimal.Decimal
	EntryDate     time.Time
	ExitDate      *time.Time
	Notes         string
	AttachmentURL string

	Status TradeStatus
}

var ErrInvalidTrade = errors.New("invalid trade")

// EnsureID assigns a new UUID when the trade has none.
func (t *Trade) EnsureID() {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
}

// Closed reports whether the trade has an exit.
func (t Trade) Closed() bool {
	return t.ExitDate != nil && t.ExitPrice.Valid
}

// RealizedPnL is (exit-entry)*qty for longs and (entry-exit)*qty for shorts;
// zero while the trade is open.
func (t Trade) RealizedPnL() decimal.Decimal {
	if !t.Closed() {
		return decimal.Zero
	}
	diff := t.ExitPrice.Decimal.Sub(t.EntryPrice)
	if t.Direction == Short {
		diff = diff.Neg()
	}
	return diff.Mul(t.Quantity)
}

// DeriveStatus fills Status from the exit and PnL.
func (t *Trade) DeriveStatus() {
	switch {
	case !t.Closed():
		t.Status = TradeOpen
	case t.PnL.IsPositive():
		t.Status = TradeWin
	case t.PnL.IsNegative():
		t.Status = TradeLoss
	default:
		t.Status = TradeBreakeven
	}
}

// Sanitized returns the copy sent to the remote table: owned by userID and
// without the display-only status.
func (t Trade) Sanitized(userID string) Trade {
	t.UserID = userID
	t.Status = ""
	return t
}

func (t Trade) Validate() error {
	if t.Asset == "" {
		return fmt.Errorf("%w: asset is required", ErrInvalidTrade)
	}
	if t.Direction != Long && t.Direction != Short {
		return fmt.Errorf("%w: direction must be long or short", ErrInvalidTrade)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidTrade)
	}
	if t.ExitDate != nil && t.ExitDate.Before(t.EntryDate) {
		return fmt.Errorf("%w: exit before entry", ErrInvalidTrade)
	}
	return nil
}

// TradeFromFields builds a trade from user input. Recognised fields: id,
// asset, direction, entry_price, exit_price, quantity, pnl, entry_date,
// exit_date, notes. A closed trade without pnl gets its realized PnL.
func TradeFromFields(f Fields, now time.Time) (Trade, error) {
	t := Trade{
		ID:        f.String("id"),
		Asset:     f.String("asset"),
		Direction: Direction(f.String("direction")),
		Notes:     f.String("notes"),
	}

	var err error
	if t.EntryPrice, err = f.Decimal("entry_price"); err != nil {
		return Trade{}, err
	}
	if t.ExitPrice, err = f.NullDecimal("exit_price"); err != nil {
		return Trade{}, err
	}
	if t.Quantity, err = f.Decimal("quantity"); err != nil {
		return Trade{}, err
	}
	if t.EntryDate, err = f.Date("entry_date", now); err != nil {
		return Trade{}, err
	}
	if t.ExitDate, err = f.OptionalDate("exit_date"); err != nil {
		return Trade{}, err
	}
	if _, ok := f["pnl"]; ok {
		if t.PnL, err = f.Decimal("pnl"); err != nil {
			return Trade{}, err
		}
	} else {
		t.PnL = t.RealizedPnL()
	}

	if err := t.Validate(); err != nil {
		return Trade{}, err
	}
	t.DeriveStatus()
	return t, nil
}
