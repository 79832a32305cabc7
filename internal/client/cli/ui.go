package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/services"
)

// Pages the UI knows about.
var pages = []string{"dashboard", "trades", "calendar", "ledger", "challenges", "profile"}

var themes = []string{"light", "dark"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Page switches the current page and remembers it; "dashboard" also prints
// the summary.
func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 || !contains(pages, args[0]) {
		return usage(fmt.Sprintf("page %v", pages))
	}
	a.Session.Navigate(ctx, args[0])
	if args[0] == "dashboard" {
		printlnFn(summary(a.Session.Snapshot()))
	}
	return nil
}

func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) != 1 || !contains(themes, args[0]) {
		return usage(fmt.Sprintf("theme %v", themes))
	}
	a.Session.SetTheme(ctx, args[0])
	return nil
}

func (a *App) StatusCmd(_ context.Context) error {
	st := a.Status.Status()
	line := fmt.Sprintf("Connection: %s", st)
	if last := a.Status.LastSync(); !last.IsZero() {
		line += ", last sync " + last.Local().Format("2006-01-02 15:04:05")
	}
	printlnFn(line)
	return nil
}

func (a *App) Reload(ctx context.Context) error {
	if err := a.Session.Reload(ctx); err != nil {
		return err
	}
	printlnFn(summary(a.Session.Snapshot()))
	return nil
}

// summary is the dashboard text for snap.
func summary(snap services.Snapshot) string {
	var open, wins, losses int
	for _, t := range snap.Trades {
		switch t.Status {
		case models.TradeOpen:
			open++
		case models.TradeWin:
			wins++
		case models.TradeLoss:
			losses++
		}
	}

	winRate := decimal.Zero
	if decided := wins + losses; decided > 0 {
		winRate = decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(decided))).Mul(decimal.NewFromInt(100))
	}

	return fmt.Sprintf("Equity: %s  Balance: %s\nTrades: %d (%d open)  Wins: %d  Losses: %d  Win rate: %s%%\nChallenges: %d",
		models.Equity(snap.Ledger, snap.Trades).StringFixed(2),
		models.Balance(snap.Ledger).StringFixed(2),
		len(snap.Trades), open, wins, losses, winRate.StringFixed(1),
		len(snap.Challenges))
}
