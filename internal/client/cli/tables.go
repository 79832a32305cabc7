package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tradejournal/internal/client/models"
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func formatNullDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func renderTrades(w io.Writer, trades []models.Trade) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Asset", "Dir", "Entry", "Exit", "Qty", "PnL", "Opened", "Closed", "Status", "Attachment")
	for _, t := range trades {
		_ = table.Append(
			t.ID,
			t.Asset,
			string(t.Direction),
			t.EntryPrice.String(),
			formatNullDecimal(t.ExitPrice),
			t.Quantity.String(),
			t.PnL.StringFixed(2),
			formatDate(t.EntryDate),
			formatOptionalDate(t.ExitDate),
			string(t.Status),
			t.AttachmentURL,
		)
	}
	_ = table.Render()
}

func renderLedger(w io.Writer, entries []models.LedgerEntry) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Date", "Kind", "Amount", "Note")
	for _, e := range entries {
		_ = table.Append(e.ID, formatDate(e.Date), string(e.Kind), e.Signed().StringFixed(2), e.Note)
	}
	_ = table.Render()
}

func renderChallenges(w io.Writer, challenges []models.Challenge) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title", "Timeframe", "Start", "End", "Capital", "Target", "Progress", "Status")
	for _, c := range challenges {
		st := models.ChallengeActive
		if c.Completed {
			st = models.ChallengeCompleted
		}
		_ = table.Append(
			c.ID,
			c.Title,
			c.Timeframe,
			formatDate(c.StartDate),
			formatDate(c.EndDate),
			c.StartingCapital.StringFixed(2),
			c.TargetCapital.StringFixed(2),
			c.Progress.StringFixed(2)+"%",
			st,
		)
	}
	_ = table.Render()
}

func renderExits(w io.Writer, trade models.Trade, exits []models.PartialExit) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Date", "Qty", "Price", "Note")
	for _, e := range exits {
		_ = table.Append(e.ID, formatDate(e.ExitDate), e.Quantity.String(), e.ExitPrice.String(), e.Note)
	}
	_ = table.Render()
	_, _ = io.WriteString(w, "Remaining quantity: "+models.RemainingQuantity(trade, exits).String()+"\n")
}

// calendarDay aggregates the trades closed on one day.
type calendarDay struct {
	Date   string
	Trades int
	PnL    decimal.Decimal
}

func calendarDays(trades []models.Trade) []calendarDay {
	var days []calendarDay
	for _, t := range trades {
		if t.ExitDate == nil {
			continue
		}
		d := formatDate(*t.ExitDate)
		if n := len(days); n > 0 && days[n-1].Date == d {
			days[n-1].Trades++
			days[n-1].PnL = days[n-1].PnL.Add(t.PnL)
			continue
		}
		days = append(days, calendarDay{Date: d, Trades: 1, PnL: t.PnL})
	}
	return days
}

func renderCalendar(w io.Writer, days []calendarDay) {
	table := tablewriter.NewWriter(w)
	table.Header("Date", "Trades", "PnL")
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.PnL)
		_ = table.Append(d.Date, strconv.Itoa(d.Trades), d.PnL.StringFixed(2))
	}
	table.Footer("Total", "", total.StringFixed(2))
	_ = table.Render()
}
