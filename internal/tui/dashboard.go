package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/voyage/internal/trip"
)

// dashboardModel is the trip overview: countdown, budget and transfers.
type dashboardModel struct {
	trip   *trip.Container
	now    func() time.Time
	width  int
	height int

	today  time.Time
	cursor int // selected transfer

	chart barchart.Model

	formActive bool
	form       *huh.Form
	editingID  string

	// Form field pointers (survive value copies)
	formLabel    *string
	formMethod   *string
	formCost     *string
	formCurrency *trip.Currency
	formDate     *string
}

func newDashboardModel(c *trip.Container, now func() time.Time) dashboardModel {
	label, method, cost, date := "", "", "", ""
	cur := trip.TWD
	d := dashboardModel{
		trip:         c,
		now:          now,
		today:        now(),
		chart:        barchart.New(60, 10),
		formLabel:    &label,
		formMethod:   &method,
		formCost:     &cost,
		formCurrency: &cur,
		formDate:     &date,
	}
	d.buildChart()
	return d
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.buildChart()
}

func (d dashboardModel) transfers() []trip.TransportLeg {
	return d.trip.State().PreDeparture.Transfers
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		d.today = time.Time(msg)
		return d, nil

	case tea.KeyMsg:
		legs := d.transfers()
		switch {
		case key.Matches(msg, keys.Currency):
			next := trip.MYR
			if d.trip.State().DisplayCurrency == trip.MYR {
				next = trip.TWD
			}
			err := d.trip.SetDisplayCurrency(next)
			d.buildChart()
			if err != nil {
				return d, failed("Currency", err)
			}
			return d, statusCmd("Showing amounts in " + string(next))
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(legs)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New):
			return d.showTransferForm(trip.TransportLeg{Currency: trip.TWD})
		case key.Matches(msg, keys.Enter):
			if len(legs) > 0 {
				return d.showTransferForm(legs[clamp(d.cursor, len(legs))])
			}
		case key.Matches(msg, keys.Delete):
			if len(legs) > 0 {
				_, err := d.trip.RemoveTransfer(legs[clamp(d.cursor, len(legs))].ID)
				d.cursor = clamp(d.cursor, len(legs)-1)
				d.buildChart()
				return d, failed("Delete transfer", err)
			}
		}
	}
	return d, nil
}

func (d dashboardModel) showTransferForm(leg trip.TransportLeg) (dashboardModel, tea.Cmd) {
	d.editingID = leg.ID
	*d.formLabel = leg.Label
	*d.formMethod = leg.Method
	*d.formCost = ""
	if leg.Cost != 0 {
		*d.formCost = fmt.Sprintf("%g", leg.Cost)
	}
	*d.formCurrency = leg.Currency
	*d.formDate = leg.Date

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Label").Placeholder("Home to airport").Value(d.formLabel).
				Validate(requireText("label")),
			huh.NewInput().Title("Method").Placeholder("Grab, train, parking...").Value(d.formMethod),
			huh.NewInput().Title("Cost").Value(d.formCost),
			huh.NewSelect[trip.Currency]().Title("Currency").
				Options(
					huh.NewOption("TWD", trip.TWD),
					huh.NewOption("MYR", trip.MYR),
				).Value(d.formCurrency),
			huh.NewInput().Title("Date (YYYY-MM-DD, optional)").Value(d.formDate).
				Validate(optionalDate),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		_, err := d.trip.SaveTransfer(trip.TransportLeg{
			ID:       d.editingID,
			Label:    strings.TrimSpace(*d.formLabel),
			Method:   strings.TrimSpace(*d.formMethod),
			Cost:     trip.ParseAmount(*d.formCost),
			Currency: *d.formCurrency,
			Date:     strings.TrimSpace(*d.formDate),
		})
		d.buildChart()
		if err != nil {
			return d, failed("Save transfer", err)
		}
		return d, statusCmd("Transfer saved")
	}

	return d, cmd
}

// budgetBars are the five cost categories in display order.
func budgetBars(b trip.Breakdown) []struct {
	label string
	value float64
	color lipgloss.Color
} {
	return []struct {
		label string
		value float64
		color lipgloss.Color
	}{
		{"Flights", b.Flights, colorPrimary},
		{"Transfers", b.Transfers, colorWarning},
		{"Transport", b.Transport, categoryColors[trip.Transport]},
		{"Food", b.Food, categoryColors[trip.Food]},
		{"Sights", b.Sightseeing, categoryColors[trip.Sightseeing]},
	}
}

func (d *dashboardModel) buildChart() {
	chartWidth := d.width/2 - 8
	if chartWidth < 30 {
		chartWidth = 30
	}
	chartHeight := 10
	if d.height > 36 {
		chartHeight = 14
	}

	d.chart = barchart.New(chartWidth, chartHeight)

	s := d.trip.State()
	b := trip.TripBreakdown(s)
	var bars []barchart.BarData
	for _, bar := range budgetBars(b) {
		v, ok := trip.FormatForDisplay(bar.value, s.DisplayCurrency, s.ExchangeRate)
		if !ok {
			v = 0
		}
		bars = append(bars, barchart.BarData{
			Label: bar.label,
			Values: []barchart.BarValue{{
				Name:  bar.label,
				Value: v,
				Style: lipgloss.NewStyle().Foreground(bar.color),
			}},
		})
	}
	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("New Transfer")
		if d.editingID != "" {
			title = titleStyle.Render("Edit Transfer")
		}
		return activePanelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	top := d.renderCountdownPanel(contentWidth)
	half := contentWidth/2 - 1
	budget := d.renderBudgetPanel(half)
	logistics := d.renderLogisticsPanel(contentWidth - half - 2)

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		lipgloss.JoinHorizontal(lipgloss.Top, budget, logistics),
	)
}

func (d dashboardModel) renderCountdownPanel(w int) string {
	r := d.trip.Range()
	days := d.trip.DaysUntilDeparture(d.today)

	var headline, sub string
	switch {
	case days > 1:
		headline = fmt.Sprintf("%d days to go", days)
	case days == 1:
		headline = "1 day to go"
	case r.Contains(d.today.UTC().Format(trip.DateLayout)):
		headline = fmt.Sprintf("Day %d of %d", r.DayNumber(d.today.UTC()), r.Days())
	case d.today.After(r.End):
		headline = "Welcome home"
	default:
		headline = "Bon voyage!"
	}
	sub = fmt.Sprintf("%s → %s · %d days · %s",
		r.Start.Format("Mon 02 Jan 2006"), r.End.Format("Mon 02 Jan 2006"), r.Days(), d.trip.Region())

	content := lipgloss.JoinVertical(lipgloss.Center,
		bigNumberStyle.Width(w-6).Render(headline),
		mutedStyle.Render(sub),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderBudgetPanel(w int) string {
	s := d.trip.State()
	b := trip.TripBreakdown(s)

	header := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render("Budget"),
		highlightStyle.Render(d.trip.Money(b.Total)),
		mutedStyle.Render("["+string(s.DisplayCurrency)+"]"),
	)

	var rows []string
	rows = append(rows, header)
	if left, ok := trip.RemainingMYR(s.BudgetLimitMYR, b.Total, s.ExchangeRate); ok {
		line := fmt.Sprintf("Limit RM %.2f · remaining RM %.2f", s.BudgetLimitMYR, left)
		if left < 0 {
			rows = append(rows, errorStyle.Render(line))
		} else {
			rows = append(rows, successStyle.Render(line))
		}
	} else {
		rows = append(rows, warningStyle.Render("Set a positive exchange rate to see MYR figures"))
	}
	rows = append(rows, "", d.chart.View(), "")
	for _, bar := range budgetBars(b) {
		dot := lipgloss.NewStyle().Foreground(bar.color).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-10s %14s", dot, bar.label, d.trip.Money(bar.value)))
	}
	rows = append(rows, "", mutedStyle.Render(fmt.Sprintf("  1 TWD = %g MYR  ·  c: switch currency", s.ExchangeRate)))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderLogisticsPanel(w int) string {
	s := d.trip.State()
	pd := s.PreDeparture

	var rows []string
	rows = append(rows, titleStyle.Render("Pre-departure"), "")
	rows = append(rows, flightLine("Outbound", pd.FlightInfo, pd.FlightCostMYR))
	rows = append(rows, flightLine("Return", pd.ReturnFlightInfo, pd.ReturnFlightCostMYR))
	rows = append(rows, "", titleStyle.Render("Transfers"))

	if len(pd.Transfers) == 0 {
		rows = append(rows, mutedStyle.Render("No transfers yet. Press n to add one."))
	}
	for i, t := range pd.Transfers {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		cost := fmt.Sprintf("%s %.2f", t.Currency.Symbol(), t.Cost)
		line := fmt.Sprintf("%s%-22s %-10s %12s", cursor, truncate(t.Label, 22), truncate(t.Method, 10), cost)
		if t.Date != "" {
			line += mutedStyle.Render("  " + t.Date)
		}
		rows = append(rows, style.Render(line))
	}

	if pd.Notes != "" {
		rows = append(rows, "", mutedStyle.Render(truncate(pd.Notes, w-6)))
	}
	rows = append(rows, "", mutedStyle.Render("  n: new  enter: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func flightLine(label, info string, costMYR float64) string {
	if info == "" && costMYR == 0 {
		return mutedStyle.Render(fmt.Sprintf("  ✈ %-9s not set (4: settings)", label))
	}
	return fmt.Sprintf("  ✈ %-9s %s  %s", label, info, highlightStyle.Render(fmt.Sprintf("RM %.2f", costMYR)))
}
