package export

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/sadopc/voyage/internal/trip"
)

const itineraryTmpl = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: 'Inter', sans-serif; padding: 40px; color: #0f172a; }
  .day { margin-bottom: 30px; border-bottom: 1px solid #e2e8f0; padding-bottom: 20px; page-break-inside: avoid; }
  .date { font-size: 1.2em; font-weight: bold; color: #0ea5e9; }
  .activity { margin: 10px 0; padding-left: 15px; border-left: 3px solid #e2e8f0; }
  .time { font-weight: bold; margin-right: 10px; }
  .tag { font-size: 0.8em; border: 1px solid #ccc; padding: 1px 4px; border-radius: 4px; }
  .meta { font-size: 0.9em; color: #64748b; font-style: italic; }
  .note { font-size: 0.9em; margin-top: 4px; color: #334155; }
</style>
</head>
<body>
<h1>{{.Title}} Itinerary</h1>
{{range .Days}}
<div class="day">
  <div class="date">Day {{.DayNumber}} · {{longDate .Date}}</div>
  {{range .Activities}}
  <div class="activity">
    <div><span class="time">{{.Time}}</span> <b>{{.LocationName}}</b> <span class="tag">{{.Category}}</span></div>
    {{with meta .}}<div class="meta">{{.}}</div>{{end}}
    {{with .Notes}}<div class="note">"{{.}}"</div>{{end}}
  </div>
  {{end}}
  {{with .DailySummary}}<p><i>Note: {{.}}</i></p>{{end}}
</div>
{{else}}
<p>No activities planned yet.</p>
{{end}}
</body>
</html>
`

const budgetTmpl = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Trip Budget</title>
<style>
  body { font-family: 'Inter', sans-serif; padding: 40px; color: #0f172a; max-width: 800px; margin: 0 auto; }
  h1 { border-bottom: 2px solid #0ea5e9; padding-bottom: 10px; margin-bottom: 30px; }
  .summary { background: #f8fafc; padding: 20px; border-radius: 12px; margin-bottom: 30px; text-align: center; }
  .label { font-size: 0.9em; text-transform: uppercase; letter-spacing: 1px; color: #64748b; font-weight: bold; }
  .total { font-size: 3em; font-weight: 800; margin: 10px 0; }
  table { width: 100%; border-collapse: collapse; }
  th { text-align: left; padding: 12px; border-bottom: 2px solid #e2e8f0; color: #64748b; }
  td { padding: 16px 12px; border-bottom: 1px solid #e2e8f0; }
  .amount { text-align: right; font-family: monospace; }
</style>
</head>
<body>
<h1>Trip Budget Breakdown</h1>
<div class="summary">
  <div class="label">Estimated Total Cost</div>
  <div class="total">{{.Total}}</div>
  <div class="label">Exchange Rate: 1 TWD = {{.Rate}} MYR</div>
</div>
<table>
  <thead><tr><th>Category</th><th class="amount">Cost</th></tr></thead>
  <tbody>
  {{range .Rows}}<tr><td>{{.Label}}</td><td class="amount">{{.Amount}}</td></tr>
  {{end}}
  </tbody>
</table>
</body>
</html>
`

var (
	itineraryPage = template.Must(template.New("itinerary").Funcs(template.FuncMap{
		"longDate": longDate,
		"meta":     meta,
	}).Parse(itineraryTmpl))
	budgetPage = template.Must(template.New("budget").Parse(budgetTmpl))
)

// WriteItineraryHTML renders a printable itinerary of days. Days without
// activities are left out.
func WriteItineraryHTML(w io.Writer, title string, days []trip.DayPlan) error {
	planned := make([]trip.DayPlan, 0, len(days))
	for _, d := range days {
		if len(d.Activities) > 0 {
			planned = append(planned, d)
		}
	}
	data := struct {
		Title string
		Days  []trip.DayPlan
	}{title, planned}
	if err := itineraryPage.Execute(w, data); err != nil {
		return fmt.Errorf("render itinerary: %w", err)
	}
	return nil
}

type budgetRow struct {
	Label  string
	Amount string
}

// WriteBudgetHTML renders a printable budget of s in its display currency.
func WriteBudgetHTML(w io.Writer, s trip.State) error {
	b := trip.TripBreakdown(s)
	money := func(v float64) string { return trip.Money(v, s.DisplayCurrency, s.ExchangeRate) }
	data := struct {
		Total string
		Rate  string
		Rows  []budgetRow
	}{
		Total: money(b.Total),
		Rate:  fmt.Sprintf("%g", s.ExchangeRate),
		Rows: []budgetRow{
			{"Flights", money(b.Flights)},
			{"Logistics / Transfers", money(b.Transfers)},
			{"Local Transport", money(b.Transport)},
			{"Food & Dining", money(b.Food)},
			{"Sightseeing & Tickets", money(b.Sightseeing)},
		},
	}
	if err := budgetPage.Execute(w, data); err != nil {
		return fmt.Errorf("render budget: %w", err)
	}
	return nil
}

// ToItineraryHTML writes WriteItineraryHTML output to path.
func ToItineraryHTML(title string, days []trip.DayPlan, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteItineraryHTML(w, title, days) })
}

// ToBudgetHTML writes WriteBudgetHTML output to path.
func ToBudgetHTML(s trip.State, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteBudgetHTML(w, s) })
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := render(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write html file: %w", err)
	}
	return f.Close()
}

func longDate(date string) string {
	d, err := trip.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2")
}

func meta(a trip.Activity) string {
	var parts []string
	if a.ArrivalTransport != "" {
		parts = append(parts, "Via "+string(a.ArrivalTransport))
	}
	if a.MealType != "" {
		parts = append(parts, string(a.MealType))
	}
	if a.TransportType != "" {
		parts = append(parts, string(a.TransportType))
	}
	return strings.Join(parts, " • ")
}
