package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
	"github.com/dmitrijs2005/tradejournal/internal/filex"
)

const tradeHint = "asset, direction=long|short, entry_price, exit_price, quantity, pnl, entry_date, exit_date, notes"

var errUsage = errors.New("usage")

func usage(text string) error {
	printlnFn("Usage:", text)
	return errUsage
}

// TradesCmd dispatches "trades <sub>"; without a subcommand it lists.
func (a *App) TradesCmd(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list", "l":
		return a.listTrades(ctx)
	case "add":
		return a.addTrade(ctx)
	case "edit":
		if len(args) != 1 {
			return usage("trades edit <id>")
		}
		return a.editTrade(ctx, args[0])
	case "delete", "rm":
		if len(args) != 1 {
			return usage("trades delete <id>")
		}
		return a.Trades.Delete(ctx, args[0])
	case "delete-many":
		if len(args) == 0 {
			return usage("trades delete-many <id> [<id>...]")
		}
		_, err := a.Trades.DeleteMany(ctx, args)
		return err
	case "delete-all":
		return a.deleteAllTrades(ctx)
	default:
		return usage("trades [list|add|edit <id>|delete <id>|delete-many <ids>|delete-all]")
	}
}

func (a *App) listTrades(ctx context.Context) error {
	// A failed read has already been reported by the data store; the table
	// renders empty.
	trades, _ := a.Trades.List(ctx)
	renderTrades(a.out, trades)
	return nil
}

func (a *App) addTrade(ctx context.Context) error {
	f, err := GetFields(a.reader, tradeHint, a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	t, err := models.TradeFromFields(f, a.now())
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	stored, err := a.Trades.Add(ctx, t)
	if err != nil {
		return err
	}
	printlnFn("Trade id:", stored.ID)
	return nil
}

func (a *App) findTrade(ctx context.Context, id string) (models.Trade, error) {
	trades, err := a.Trades.List(ctx)
	if err != nil {
		return models.Trade{}, err
	}
	for _, t := range trades {
		if t.ID == id {
			return t, nil
		}
	}
	err = fmt.Errorf("trade %s not found", id)
	printlnFn(err)
	return models.Trade{}, err
}

// tradeFields renders t as the fields TradeFromFields accepts.
func tradeFields(t models.Trade) models.Fields {
	f := models.Fields{
		"id":          t.ID,
		"asset":       t.Asset,
		"direction":   string(t.Direction),
		"entry_price": t.EntryPrice.String(),
		"exit_price":  formatNullDecimal(t.ExitPrice),
		"quantity":    t.Quantity.String(),
		"pnl":         t.PnL.String(),
		"entry_date":  formatDate(t.EntryDate),
		"exit_date":   formatOptionalDate(t.ExitDate),
		"notes":       t.Notes,
	}
	return f
}

// pricingFields change the realized PnL; editing any of them without an
// explicit pnl recomputes it.
var pricingFields = []string{"direction", "entry_price", "exit_price", "quantity"}

func mergeTradeFields(base, changes models.Fields) models.Fields {
	merged := make(models.Fields, len(base)+len(changes))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range changes {
		if k == "id" {
			continue
		}
		merged[k] = v
	}
	if _, ok := changes["pnl"]; !ok {
		for _, k := range pricingFields {
			if _, ok := changes[k]; ok {
				delete(merged, "pnl")
				break
			}
		}
	}
	return merged
}

func (a *App) editTrade(ctx context.Context, id string) error {
	current, err := a.findTrade(ctx, id)
	if err != nil {
		return err
	}
	renderTrades(a.out, []models.Trade{current})

	changes, err := GetFields(a.reader, "fields to change: "+tradeHint, a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	t, err := models.TradeFromFields(mergeTradeFields(tradeFields(current), changes), current.EntryDate)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	t.AttachmentURL = current.AttachmentURL
	return a.Trades.Upsert(ctx, t)
}

func (a *App) deleteAllTrades(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Delete ALL trades? Type 'yes' to confirm", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		printlnFn("Cancelled")
		return nil
	}
	_, err = a.Trades.DeleteAll(ctx)
	return err
}

// Exits handles partial exits of one trade.
func (a *App) Exits(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("exits list <trade-id> | exits add <trade-id> | exits delete <exit-id>")
	}

	switch args[0] {
	case "list":
		trade, err := a.findTrade(ctx, args[1])
		if err != nil {
			return err
		}
		exits, _ := a.PartialExits.List(ctx, trade.ID)
		renderExits(a.out, trade, exits)
		return nil
	case "add":
		f, err := GetFields(a.reader, "quantity, exit_price, exit_date, note", a.out)
		if err != nil {
			printlnFn("error:", err)
			return err
		}
		f["trade_id"] = args[1]
		p, err := models.PartialExitFromFields(f, a.now())
		if err != nil {
			printlnFn("error:", err)
			return err
		}
		return a.PartialExits.Save(ctx, p)
	case "delete", "rm":
		return a.PartialExits.Delete(ctx, args[1])
	default:
		return usage("exits list <trade-id> | exits add <trade-id> | exits delete <exit-id>")
	}
}

// Attach uploads a screenshot and links it to a trade.
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("attach <trade-id> <file>")
	}
	file, err := filex.ReadAttachment(args[1], MaxAttachmentSize)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	up, err := a.Attachments.AttachToTrade(ctx, args[0], file.Name, file.Data, file.ContentType)
	if err != nil {
		return err
	}
	printlnFn("Attachment URL:", up.PublicURL)
	return nil
}

// Calendar shows per-day results for a month, "calendar [YYYY-MM]".
func (a *App) Calendar(ctx context.Context, args []string) error {
	now := a.now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if len(args) > 0 {
		m, err := time.Parse("2006-01", args[0])
		if err != nil {
			return usage("calendar [YYYY-MM]")
		}
		month = m
	}
	to := month.AddDate(0, 1, 0).Add(-time.Nanosecond)

	trades, _ := a.Trades.ListForCalendar(ctx, month, to)
	printlnFn(month.Format("January 2006"))
	renderCalendar(a.out, calendarDays(trades))
	return nil
}
