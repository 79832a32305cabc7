package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerKind string

const (
	Deposit    LedgerKind = "deposit"
	Withdrawal LedgerKind = "withdrawal"
	Fee        LedgerKind = "fee"
	Adjustment LedgerKind = "adjustment"
)

// LedgerEntry is a cash movement on the trading account.
type LedgerEntry struct {
	ID     string
	UserID string
	Date   time.Time
	Kind   LedgerKind
	Amount decimal.Decimal
	Note   string
}

func (e *LedgerEntry) EnsureID() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
}

// Signed returns Amount with withdrawals and fees negated.
func (e LedgerEntry) Signed() decimal.Decimal {
	switch e.Kind {
	case Withdrawal, Fee:
		return e.Amount.Abs().Neg()
	default:
		return e.Amount
	}
}

// Balance sums the signed amounts of entries.
func Balance(entries []LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Signed())
	}
	return sum
}

func LedgerEntryFromFields(f Fields, now time.Time) (LedgerEntry, error) {
	e := LedgerEntry{
		ID:   f.String("id"),
		Kind: LedgerKind(f.String("kind")),
		Note: f.String("note"),
	}
	switch e.Kind {
	case Deposit, Withdrawal, Fee, Adjustment:
	default:
		return LedgerEntry{}, fmt.Errorf("kind must be deposit, withdrawal, fee or adjustment, got %q", e.Kind)
	}

	var err error
	if e.Amount, err = f.Decimal("amount"); err != nil {
		return LedgerEntry{}, err
	}
	if e.Date, err = f.Date("date", now); err != nil {
		return LedgerEntry{}, err
	}
	return e, nil
}

// Equity is the ledger balance plus the PnL of closed trades.
func Equity(entries []LedgerEntry, trades []Trade) decimal.Decimal {
	sum := Balance(entries)
	for _, t := range trades {
		if t.Closed() {
			sum = sum.Add(t.PnL)
		}
	}
	return sum
}
