package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

var (
	bold  = color.New(color.Bold)
	title = color.New(color.Bold, color.Underline)
	faint = color.New(color.Faint)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
)

// printBudget renders the five budget categories in both currencies.
func printBudget(w io.Writer, s trip.State) {
	b := trip.TripBreakdown(s)
	rate := s.ExchangeRate

	_, _ = title.Fprintln(w, "Budget")
	_, _ = faint.Fprintf(w, "1 TWD = %g MYR\n\n", rate)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Category"), bold.Sprint("TWD"), bold.Sprint("MYR"))
	rows := []struct {
		label string
		value float64
	}{
		{"Flights", b.Flights},
		{"Logistics / Transfers", b.Transfers},
		{"Local Transport", b.Transport},
		{"Food & Dining", b.Food},
		{"Sightseeing & Tickets", b.Sightseeing},
	}
	for _, r := range rows {
		tbl.AddRow(r.label, trip.Money(r.value, trip.TWD, rate), trip.Money(r.value, trip.MYR, rate))
	}
	tbl.AddRow(bold.Sprint("Total"), bold.Sprint(trip.Money(b.Total, trip.TWD, rate)), bold.Sprint(trip.Money(b.Total, trip.MYR, rate)))
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(w, tbl)

	left, ok := trip.RemainingMYR(s.BudgetLimitMYR, b.Total, rate)
	switch {
	case !ok:
		_, _ = faint.Fprintf(w, "\nLimit RM %s (set a positive exchange rate to compare)\n", humanize.FormatFloat("#,###.##", s.BudgetLimitMYR))
	case left < 0:
		_, _ = red.Fprintf(w, "\nOver the RM %s limit by RM %s\n", humanize.FormatFloat("#,###.##", s.BudgetLimitMYR), humanize.FormatFloat("#,###.##", -left))
	default:
		_, _ = green.Fprintf(w, "\nRM %s of RM %s left\n", humanize.FormatFloat("#,###.##", left), humanize.FormatFloat("#,###.##", s.BudgetLimitMYR))
	}
}

// printHistory lists saved revisions, newest first.
func printHistory(w io.Writer, revs []store.Revision, now time.Time) {
	if len(revs) == 0 {
		_, _ = faint.Fprintln(w, "No saves yet.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Saved"), bold.Sprint(""), bold.Sprint("Size"))
	for _, r := range revs {
		tbl.AddRow(
			fmt.Sprint(r.ID),
			r.SavedAt.Local().Format("2006-01-02 15:04:05"),
			faint.Sprint(humanize.RelTime(r.SavedAt, now, "ago", "from now")),
			humanize.Bytes(uint64(r.Size)),
		)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}

func printPlace(w io.Writer, p lookup.Place) {
	_, _ = title.Fprintln(w, p.Name)
	if p.Address != "" {
		_, _ = fmt.Fprintln(w, p.Address)
	}
	_, _ = faint.Fprintln(w, p.MapURL)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, p.Description.EN)
	if p.Description.ZH != "" && p.Description.ZH != p.Description.EN {
		_, _ = fmt.Fprintln(w, p.Description.ZH)
	}
	if len(p.FunThings.EN) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = bold.Fprintln(w, "Things to do")
		for _, f := range p.FunThings.EN {
			_, _ = fmt.Fprintln(w, "  • "+f)
		}
	}
}

func printWeather(w io.Writer, cards []trip.WeatherCard) {
	if len(cards) == 0 {
		_, _ = faint.Fprintln(w, "No forecast available.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Day"), bold.Sprint("Condition"), bold.Sprint("Temp"), bold.Sprint("Rain"), bold.Sprint("Advice"))
	for _, c := range cards {
		tbl.AddRow(c.Date, c.DayName, c.Condition, c.Temp, c.RainChance, strings.TrimSpace(c.Advice))
	}
	_, _ = fmt.Fprintln(w, tbl)
}
