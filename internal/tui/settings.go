package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

type settingsModel struct {
	trip   *trip.Container
	store  *store.Store
	width  int
	height int

	revisions  []store.Revision
	stored     []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	exchangeRate  *string
	budgetLimit   *string
	currency      *trip.Currency
	flightInfo    *string
	flightCost    *string
	returnInfo    *string
	returnCost    *string
	logisticsNote *string
}

func newSettingsModel(c *trip.Container, s *store.Store) settingsModel {
	er, bl, fi, fc := "", "", "", ""
	ri, rc, ln := "", "", ""
	cur := trip.TWD
	return settingsModel{
		trip:          c,
		store:         s,
		exchangeRate:  &er,
		budgetLimit:   &bl,
		currency:      &cur,
		flightInfo:    &fi,
		flightCost:    &fc,
		returnInfo:    &ri,
		returnCost:    &rc,
		logisticsNote: &ln,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	revisions []store.Revision
	stored    []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	if s.store == nil {
		return nil
	}
	st := s.store
	return func() tea.Msg {
		revs, _ := st.History(trip.StateKey, 5)
		stored, _ := st.GetAllSettings()
		return settingsDataMsg{revisions: revs, stored: stored}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.revisions = msg.revisions
		s.stored = msg.stored
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	st := s.trip.State()
	pd := st.PreDeparture
	*s.exchangeRate = fmt.Sprintf("%g", st.ExchangeRate)
	*s.budgetLimit = fmt.Sprintf("%g", st.BudgetLimitMYR)
	*s.currency = st.DisplayCurrency
	*s.flightInfo = pd.FlightInfo
	*s.flightCost = amountText(pd.FlightCostMYR)
	*s.returnInfo = pd.ReturnFlightInfo
	*s.returnCost = amountText(pd.ReturnFlightCostMYR)
	*s.logisticsNote = pd.Notes

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Exchange rate (1 TWD in MYR)").Value(s.exchangeRate),
			huh.NewInput().Title("Budget limit (MYR)").Value(s.budgetLimit),
			huh.NewSelect[trip.Currency]().Title("Show amounts in").
				Options(
					huh.NewOption("TWD (NT$)", trip.TWD),
					huh.NewOption("MYR (RM)", trip.MYR),
				).Value(s.currency),
		).Title("Money"),
		huh.NewGroup(
			huh.NewInput().Title("Outbound flight").Placeholder("MH 366 KUL → TPE").Value(s.flightInfo),
			huh.NewInput().Title("Outbound cost (MYR)").Value(s.flightCost),
			huh.NewInput().Title("Return flight").Value(s.returnInfo),
			huh.NewInput().Title("Return cost (MYR)").Value(s.returnCost),
			huh.NewText().Title("Pre-departure notes").Value(s.logisticsNote),
		).Title("Flights"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, failed("Save settings", err)
		}
		return s, tea.Batch(statusCmd("Settings saved"), s.refresh())
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	if _, err := s.trip.SetExchangeRate(*s.exchangeRate); err != nil {
		return err
	}
	if err := s.trip.SetBudgetLimit(*s.budgetLimit); err != nil {
		return err
	}
	if err := s.trip.SetDisplayCurrency(*s.currency); err != nil {
		return err
	}
	if err := s.trip.SetFlight(trip.Outbound, strings.TrimSpace(*s.flightInfo), trip.ParseAmount(*s.flightCost)); err != nil {
		return err
	}
	if err := s.trip.SetFlight(trip.Return, strings.TrimSpace(*s.returnInfo), trip.ParseAmount(*s.returnCost)); err != nil {
		return err
	}
	return s.trip.SetLogisticsNotes(strings.TrimSpace(*s.logisticsNote))
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Trip Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	st := s.trip.State()
	r := s.trip.Range()
	pd := st.PreDeparture

	var rows []string
	rows = append(rows, titleStyle.Render("Trip Settings"), "")
	rows = append(rows, settingRow("Dates", fmt.Sprintf("%s to %s", r.Start.Format(trip.DateLayout), r.End.Format(trip.DateLayout))))
	rows = append(rows, settingRow("Region", s.trip.Region()))
	rows = append(rows, settingRow("Exchange rate", fmt.Sprintf("1 TWD = %g MYR", st.ExchangeRate)))
	rows = append(rows, settingRow("Budget limit", fmt.Sprintf("RM %.2f", st.BudgetLimitMYR)))
	rows = append(rows, settingRow("Display currency", string(st.DisplayCurrency)))
	rows = append(rows, settingRow("Outbound flight", orDash(pd.FlightInfo)))
	rows = append(rows, settingRow("Return flight", orDash(pd.ReturnFlightInfo)))

	if len(s.stored) > 0 {
		rows = append(rows, "", titleStyle.Render("Stored preferences"), "")
		for _, set := range s.stored {
			rows = append(rows, settingRow(set.Key, set.Value))
		}
	}

	rows = append(rows, "", titleStyle.Render("Recent saves"), "")
	if len(s.revisions) == 0 {
		rows = append(rows, mutedStyle.Render("  No saves yet"))
	}
	for _, rev := range s.revisions {
		rows = append(rows, fmt.Sprintf("  #%-5d %s  %s", rev.ID,
			rev.SavedAt.Local().Format("2006-01-02 15:04:05"),
			mutedStyle.Render(fmt.Sprintf("%d bytes", rev.Size))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings · voyage restore <id> rolls back a save"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render(label), highlightStyle.Render(value))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
