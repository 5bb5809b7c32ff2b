package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

type itineraryModel struct {
	trip   *trip.Container
	store  *store.Store
	lookup *lookup.Client
	width  int
	height int

	dayIdx  int
	cursor  int // selected activity
	showLog bool

	jumping bool
	jump    textinput.Model

	formActive bool
	form       *huh.Form
	formType   string // "activity", "summary"
	editingID  string
	editing    trip.Activity

	// Form field pointers (survive value copies)
	formCategory  *trip.Category
	formTime      *string
	formLocation  *string
	formDesc      *string
	formTransport *trip.TransportType
	formMeal      *trip.MealType
	formArrival   *trip.TransportType
	formCost      *string
	formArrCost   *string
	formNotes     *string
	formSummary   *string
}

func newItineraryModel(c *trip.Container, s *store.Store, l *lookup.Client) itineraryModel {
	cat := trip.Sightseeing
	tm, loc, desc, cost, arrCost, notes, summary := "", "", "", "", "", "", ""
	transport, arrival := trip.MRT, trip.MRT
	meal := trip.Lunch

	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12

	m := itineraryModel{
		trip:          c,
		store:         s,
		lookup:        l,
		jump:          ti,
		formCategory:  &cat,
		formTime:      &tm,
		formLocation:  &loc,
		formDesc:      &desc,
		formTransport: &transport,
		formMeal:      &meal,
		formArrival:   &arrival,
		formCost:      &cost,
		formArrCost:   &arrCost,
		formNotes:     &notes,
		formSummary:   &summary,
	}
	if s != nil {
		m.dayIdx = s.GetIntSetting(store.SettingSelectedDay, 0)
	}
	m.dayIdx = clamp(m.dayIdx, m.dayCount())
	return m
}

func (m *itineraryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m itineraryModel) dayCount() int {
	return len(m.trip.State().Itinerary)
}

func (m itineraryModel) currentDay() (trip.DayPlan, bool) {
	return m.trip.Day(m.dayIdx)
}

func (m itineraryModel) selected() (trip.DayPlan, trip.Activity, bool) {
	day, ok := m.currentDay()
	if !ok || len(day.Activities) == 0 {
		return day, trip.Activity{}, false
	}
	return day, day.Activities[clamp(m.cursor, len(day.Activities))], true
}

// selectDay moves to day i and remembers it across restarts.
func (m itineraryModel) selectDay(i int) (itineraryModel, tea.Cmd) {
	i = clamp(i, m.dayCount())
	if i == m.dayIdx {
		return m, nil
	}
	m.dayIdx = i
	m.cursor = 0
	if m.store == nil {
		return m, nil
	}
	return m, failed("Remember day", m.store.SetIntSetting(store.SettingSelectedDay, i))
}

func (m itineraryModel) isCapturing() bool {
	return m.formActive || m.jumping
}

func (m itineraryModel) update(msg tea.Msg) (itineraryModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}
	if m.jumping {
		return m.updateJump(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.showLog {
		if key.Matches(keyMsg, keys.Back) || key.Matches(keyMsg, keys.Log) {
			m.showLog = false
		}
		return m, nil
	}

	day, _ := m.currentDay()
	switch {
	case key.Matches(keyMsg, keys.Left):
		return m.selectDay(m.dayIdx - 1)
	case key.Matches(keyMsg, keys.Right):
		return m.selectDay(m.dayIdx + 1)
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(day.Activities)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		if day.Date == "" {
			return m, nil
		}
		return m.showActivityForm(trip.Activity{Category: trip.Sightseeing, Time: trip.DefaultActivityTime})
	case key.Matches(keyMsg, keys.Enter):
		if _, a, ok := m.selected(); ok {
			return m.showActivityForm(a)
		}
	case key.Matches(keyMsg, keys.Delete):
		if _, a, ok := m.selected(); ok {
			_, err := m.trip.RemoveActivity(day.Date, a.ID)
			m.cursor = clamp(m.cursor, len(day.Activities)-1)
			if err != nil {
				return m, failed("Delete activity", err)
			}
			return m, statusCmd("Removed " + a.LocationName)
		}
	case key.Matches(keyMsg, keys.Summary):
		if day.Date != "" {
			return m.showSummaryForm(day)
		}
	case key.Matches(keyMsg, keys.GoTo):
		m.jumping = true
		m.jump.SetValue("")
		m.jump.Focus()
		return m, textinput.Blink
	case key.Matches(keyMsg, keys.Log):
		m.showLog = true
	case key.Matches(keyMsg, keys.Lookup):
		if _, a, ok := m.selected(); ok {
			return m, m.lookupActivity(day.Date, a)
		}
	}
	return m, nil
}

// lookupActivity resolves the activity's place in the background. The result
// is applied by the update loop, keyed by date and id.
func (m itineraryModel) lookupActivity(date string, a trip.Activity) tea.Cmd {
	if !m.lookup.Online() {
		return statusCmd("Place lookup is offline (no API key)")
	}
	client := m.lookup
	query := a.LocationName
	id := a.ID
	return tea.Batch(
		statusCmd("Looking up "+query+"..."),
		func() tea.Msg {
			return activityPlaceMsg{date: date, id: id, place: client.SearchPlace(context.Background(), query)}
		},
	)
}

func (m itineraryModel) updateJump(msg tea.Msg) (itineraryModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.jumping = false
			m.jump.Blur()
			return m, nil
		case "enter":
			m.jumping = false
			m.jump.Blur()
			date := strings.TrimSpace(m.jump.Value())
			i, err := m.trip.UpsertDay(date)
			if err != nil {
				return m, failed("Go to "+date, err)
			}
			m.dayIdx = -1
			return m.selectDay(i)
		}
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m itineraryModel) showActivityForm(a trip.Activity) (itineraryModel, tea.Cmd) {
	m.formType = "activity"
	m.editingID = a.ID
	m.editing = a

	*m.formCategory = a.Category
	*m.formTime = a.Time
	*m.formLocation = a.LocationName
	*m.formDesc = a.Description
	*m.formNotes = a.Notes
	*m.formCost = amountText(a.PrimaryCost())
	*m.formArrCost = amountText(a.ArrivalCostTWD)
	if a.TransportType != "" {
		*m.formTransport = a.TransportType
	}
	if a.MealType != "" {
		*m.formMeal = a.MealType
	}
	if a.ArrivalTransport != "" {
		*m.formArrival = a.ArrivalTransport
	}

	cat := m.formCategory
	hiddenUnless := func(c trip.Category) func() bool {
		return func() bool { return *cat != c }
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[trip.Category]().Title("Category").
				Options(options(trip.Categories)...).Value(m.formCategory),
			huh.NewInput().Title("Time (HH:MM)").Value(m.formTime).Validate(validTime),
			huh.NewInput().Title("Location").Placeholder("Taipei 101").Value(m.formLocation).
				Validate(requireText("location")),
			huh.NewInput().Title("Description").Value(m.formDesc),
		).Title("Activity"),
		huh.NewGroup(
			huh.NewSelect[trip.TransportType]().Title("Transport").
				Options(options(trip.TransportTypes)...).Value(m.formTransport),
			huh.NewInput().Title("Fare (TWD)").Value(m.formCost),
		).Title("Transport").WithHideFunc(hiddenUnless(trip.Transport)),
		huh.NewGroup(
			huh.NewSelect[trip.MealType]().Title("Meal").
				Options(options(trip.MealTypes)...).Value(m.formMeal),
			huh.NewInput().Title("Meal cost (TWD)").Value(m.formCost),
		).Title("Food").WithHideFunc(hiddenUnless(trip.Food)),
		huh.NewGroup(
			huh.NewSelect[trip.TransportType]().Title("Getting there").
				Options(options(trip.TransportTypes)...).Value(m.formArrival),
			huh.NewInput().Title("Getting there cost (TWD)").Value(m.formArrCost),
			huh.NewInput().Title("Ticket (TWD)").Value(m.formCost),
		).Title("Sightseeing").WithHideFunc(hiddenUnless(trip.Sightseeing)),
		huh.NewGroup(
			huh.NewInput().Title("Cost (TWD)").Value(m.formCost),
		).Title("Other").WithHideFunc(hiddenUnless(trip.Other)),
		huh.NewGroup(
			huh.NewText().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m itineraryModel) showSummaryForm(day trip.DayPlan) (itineraryModel, tea.Cmd) {
	m.formType = "summary"
	*m.formSummary = day.DailySummary
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title(fmt.Sprintf("Day %d notes", day.DayNumber)).
				Placeholder("How did the day go?").Value(m.formSummary),
		),
	).WithShowHelp(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m itineraryModel) updateForm(msg tea.Msg) (itineraryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		cmd := m.saveForm()
		return m, cmd
	}

	return m, cmd
}

func (m *itineraryModel) saveForm() tea.Cmd {
	day, ok := m.currentDay()
	if !ok {
		return nil
	}

	if m.formType == "summary" {
		_, err := m.trip.UpdateSummary(day.Date, strings.TrimSpace(*m.formSummary))
		if err != nil {
			return failed("Save notes", err)
		}
		return statusCmd("Notes saved")
	}

	a := m.formActivity()
	if m.editingID == "" {
		saved, _, err := m.trip.AddActivity(day.Date, a)
		if err != nil {
			return failed("Add activity", err)
		}
		if d, ok := m.trip.Day(m.dayIdx); ok {
			for i, x := range d.Activities {
				if x.ID == saved.ID {
					m.cursor = i
				}
			}
		}
		return statusCmd("Added " + saved.LocationName)
	}
	if _, err := m.trip.UpdateActivity(day.Date, m.editingID, a); err != nil {
		return failed("Update activity", err)
	}
	return statusCmd("Updated " + a.LocationName)
}

// formActivity assembles the edited activity. A renamed location drops the
// old address and map link.
func (m itineraryModel) formActivity() trip.Activity {
	a := trip.Activity{
		Time:             strings.TrimSpace(*m.formTime),
		Category:         *m.formCategory,
		LocationName:     strings.TrimSpace(*m.formLocation),
		Description:      strings.TrimSpace(*m.formDesc),
		TransportType:    *m.formTransport,
		MealType:         *m.formMeal,
		ArrivalTransport: *m.formArrival,
		Notes:            strings.TrimSpace(*m.formNotes),
	}
	if a.LocationName == m.editing.LocationName {
		a.LocationAddress = m.editing.LocationAddress
		a.GoogleMapsURL = m.editing.GoogleMapsURL
	}
	return a.WithCost(trip.ParseAmount(*m.formCost), trip.ParseAmount(*m.formArrCost))
}

// applyPlace folds a finished lookup into the activity it was started for,
// if that activity still exists.
func (m itineraryModel) applyPlace(msg activityPlaceMsg) tea.Cmd {
	i := m.trip.DayIndex(msg.date)
	day, ok := m.trip.Day(i)
	if !ok {
		return nil
	}
	a, ok := day.Activity(msg.id)
	if !ok {
		return nil
	}
	p := msg.place
	if p.Address != "" {
		a.LocationAddress = p.Address
	}
	if p.MapURL != "" {
		a.GoogleMapsURL = p.MapURL
	}
	if a.Notes == "" && p.Description.EN != "" {
		a.Notes = p.Description.EN
	}
	if _, err := m.trip.UpdateActivity(msg.date, msg.id, a); err != nil {
		return failed("Save place", err)
	}
	return statusCmd("Found " + a.LocationName)
}

func (m itineraryModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := "Day Notes"
		if m.formType == "activity" {
			title = "New Activity"
			if m.editingID != "" {
				title = "Edit Activity"
			}
		}
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", m.form.View()),
		)
	}

	if m.showLog {
		return m.renderLog(w)
	}

	day, ok := m.currentDay()
	if !ok {
		return panelStyle.Width(w).Render(mutedStyle.Render("No days planned. Press g to go to a date."))
	}

	var rows []string
	rows = append(rows, m.renderStrip(w-6), "")

	heading := fmt.Sprintf("Day %d · %s", day.DayNumber, longDay(day.Date))
	rows = append(rows, fmt.Sprintf("%s  %s", titleStyle.Render(heading),
		highlightStyle.Render(m.trip.Money(trip.DayCost(day)))))
	if m.jumping {
		rows = append(rows, "Go to date: "+m.jump.View())
	}
	rows = append(rows, "")

	if len(day.Activities) == 0 {
		rows = append(rows, mutedStyle.Render("  Nothing planned yet. Press n to add an activity."))
	}
	for i, a := range day.Activities {
		rows = append(rows, m.renderActivity(a, i == m.cursor, w-6))
	}

	if day.DailySummary != "" {
		rows = append(rows, "", subtitleStyle.Render("Notes"), truncate(day.DailySummary, (w-6)*3))
	}

	rows = append(rows, "", mutedStyle.Render("  ←/→: day  n: new  enter: edit  d: delete  f: find place  s: notes  g: go to date  v: log"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m itineraryModel) renderStrip(w int) string {
	it := m.trip.State().Itinerary
	// Show a window of chips around the selected day.
	visible := w / 11
	if visible < 1 {
		visible = 1
	}
	start := m.dayIdx - visible/2
	if start+visible > len(it) {
		start = len(it) - visible
	}
	if start < 0 {
		start = 0
	}

	var chips []string
	for i := start; i < len(it) && i < start+visible; i++ {
		label := fmt.Sprintf("D%d %s", it[i].DayNumber, shortDay(it[i].Date))
		if i == m.dayIdx {
			chips = append(chips, activeDayChipStyle.Render(label))
		} else {
			chips = append(chips, dayChipStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m itineraryModel) renderActivity(a trip.Activity, selected bool, w int) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	var kind string
	switch a.Category {
	case trip.Transport:
		kind = string(a.TransportType)
	case trip.Food:
		kind = string(a.MealType)
	case trip.Sightseeing:
		if a.ArrivalTransport != "" {
			kind = "via " + string(a.ArrivalTransport)
		}
	}

	line := fmt.Sprintf("%s%s  %s %s", cursor, a.Time,
		categoryStyle(a.Category).Render(fmt.Sprintf("%-11s", a.Category)),
		style.Render(truncate(a.LocationName, 28)))
	if kind != "" {
		line += mutedStyle.Render("  " + kind)
	}
	line += "  " + highlightStyle.Render(m.trip.Money(trip.ActivityCost(a)))

	var sub []string
	if a.LocationAddress != "" {
		sub = append(sub, a.LocationAddress)
	}
	if a.Description != "" {
		sub = append(sub, a.Description)
	}
	if len(sub) > 0 && selected {
		line += "\n" + mutedStyle.Render("      "+truncate(strings.Join(sub, " · "), w-6))
	}
	return line
}

func (m itineraryModel) renderLog(w int) string {
	log := m.trip.State().Itinerary.SightseeingLog()

	var rows []string
	rows = append(rows, titleStyle.Render("Sightseeing Log"), "")
	if len(log) == 0 {
		rows = append(rows, mutedStyle.Render("No sightseeing planned yet."))
	}
	for _, d := range log {
		rows = append(rows, subtitleStyle.Render(longDay(d.Date)))
		for _, a := range d.Activities {
			rows = append(rows, fmt.Sprintf("  %s  %s", a.Time, a.LocationName))
		}
		rows = append(rows, "")
	}
	rows = append(rows, mutedStyle.Render("  esc: back"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// --- Helpers ---

func options[T ~string](values []T) []huh.Option[T] {
	out := make([]huh.Option[T], len(values))
	for i, v := range values {
		out[i] = huh.NewOption(string(v), v)
	}
	return out
}

func validTime(s string) error {
	if err := trip.CheckTime(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func amountText(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

func longDay(date string) string {
	t, err := trip.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, 2 January")
}

func shortDay(date string) string {
	t, err := trip.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}
