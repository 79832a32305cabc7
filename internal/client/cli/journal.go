package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/client/services"
)

const (
	ledgerHint    = "kind=deposit|withdrawal|fee|adjustment, amount, date, note"
	challengeHint = "title, description, timeframe, max_risk, starting_capital, target_capital, start_date, end_date, success, completed"
)

// LedgerCmd handles "ledger [list|add|delete <id>]".
func (a *App) LedgerCmd(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list", "l":
		entries, _ := a.Ledger.List(ctx)
		renderLedger(a.out, entries)
		printlnFn("Balance:", models.Balance(entries).StringFixed(2))
		return nil
	case "add":
		f, err := GetFields(a.reader, ledgerHint, a.out)
		if err != nil {
			printlnFn("error:", err)
			return err
		}
		e, err := models.LedgerEntryFromFields(f, a.now())
		if err != nil {
			printlnFn("error:", err)
			return err
		}
		return a.Ledger.Upsert(ctx, e)
	case "delete", "rm":
		if len(args) != 1 {
			return usage("ledger delete <id>")
		}
		return a.Ledger.Delete(ctx, args[0])
	default:
		return usage("ledger [list|add|delete <id>]")
	}
}

// ChallengesCmd handles "challenges [list|add|complete <id>|delete <id>]".
func (a *App) ChallengesCmd(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list", "l":
		list, _ := a.Challenges.List(ctx)
		renderChallenges(a.out, withProgress(list, a.Session.Snapshot()))
		return nil
	case "add":
		f, err := GetFields(a.reader, challengeHint, a.out)
		if err != nil {
			printlnFn("error:", err)
			return err
		}
		c, err := models.ChallengeFromFields(f, a.now())
		if err != nil {
			printlnFn("error:", err)
			return err
		}
		return a.Challenges.Upsert(ctx, c)
	case "complete":
		if len(args) != 1 {
			return usage("challenges complete <id>")
		}
		list, err := a.Challenges.List(ctx)
		if err != nil {
			return err
		}
		for _, c := range list {
			if c.ID == args[0] {
				c.Completed = true
				return a.Challenges.Upsert(ctx, c)
			}
		}
		err = fmt.Errorf("challenge %s not found", args[0])
		printlnFn(err)
		return err
	case "delete", "rm":
		if len(args) != 1 {
			return usage("challenges delete <id>")
		}
		return a.Challenges.Delete(ctx, args[0])
	default:
		return usage("challenges [list|add|complete <id>|delete <id>]")
	}
}

// withProgress fills Progress from the equity of the last loaded snapshot.
func withProgress(list []models.Challenge, snap services.Snapshot) []models.Challenge {
	equity := models.Equity(snap.Ledger, snap.Trades)
	for i := range list {
		list[i].UpdateProgress(equity)
	}
	return list
}
