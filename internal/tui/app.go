package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/voyage/internal/export"
	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Trip   *trip.Container
	Store  *store.Store
	Lookup *lookup.Client

	Title        string
	ExportDir    string
	WeatherDates []string
	Now          func() time.Time
}

type exportFormat int

const (
	exportDayHTML exportFormat = iota
	exportItineraryHTML
	exportBudgetHTML
	exportCSV
	exportJSON
)

var exportFormats = []string{
	"Selected day (HTML)",
	"Whole itinerary (HTML)",
	"Budget (HTML)",
	"Activities (CSV)",
	"Budget (JSON)",
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard  dashboardModel
	itinerary  itineraryModel
	essentials essentialsModel
	settings   settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(d Deps) App {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Title == "" {
		d.Title = "Trip"
	}
	if d.ExportDir == "" {
		d.ExportDir = "."
	}

	h := help.New()
	h.ShowAll = false

	active := viewDashboard
	if d.Store != nil {
		active = viewState(clamp(d.Store.GetIntSetting(store.SettingActiveTab, 0), len(viewNames)))
	}

	return App{
		deps:       d,
		activeView: active,
		dashboard:  newDashboardModel(d.Trip, d.Now),
		itinerary:  newItineraryModel(d.Trip, d.Store, d.Lookup),
		essentials: newEssentialsModel(d.Trip, d.Lookup, d.WeatherDates),
		settings:   newSettingsModel(d.Trip, d.Store),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.settings.refresh(),
		tickCmd(),
	)
}

// The countdown only changes by the day.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.itinerary.setSize(a.width, contentHeight)
		a.essentials.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewItinerary)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewEssentials)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		a.dashboard, _ = a.dashboard.update(msg)
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil

	// Lookup results land whatever view is showing.
	case placeFoundMsg:
		found, err := a.deps.Trip.MergePlace(msg.id, msg.place.Details())
		if err != nil {
			return a, failed("Save place", err)
		}
		if !found {
			return a, nil
		}
		return a, statusCmd("Found " + msg.place.Name)

	case activityPlaceMsg:
		return a, a.itinerary.applyPlace(msg)

	case weatherMsg:
		var cmd tea.Cmd
		a.essentials, cmd = a.essentials.applyWeather(msg)
		return a, cmd

	case settingsDataMsg:
		a.settings, _ = a.settings.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	if a.deps.Store != nil {
		_ = a.deps.Store.SetIntSetting(store.SettingActiveTab, int(v))
	}
	switch v {
	case viewDashboard:
		a.dashboard.buildChart()
	case viewSettings:
		return a, a.settings.refresh()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewItinerary:
		a.itinerary, cmd = a.itinerary.update(msg)
	case viewEssentials:
		a.essentials, cmd = a.essentials.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewItinerary:
		return a.itinerary.isCapturing()
	case viewEssentials:
		return a.essentials.isCapturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewItinerary:
		content = a.itinerary.view()
	case viewEssentials:
		content = a.essentials.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("✈ " + a.deps.Title)
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	total := accentStyle.Render(" " + a.deps.Trip.Money(a.deps.Trip.Breakdown().Total))

	left := footerStyle.Render(helpView)
	right := status + total

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export"))
	rows = append(rows, mutedStyle.Render("Files are written to "+a.deps.ExportDir))
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormat(a.exportCursor))
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport renders from a snapshot taken now, so the command never reads
// the live container.
func (a App) doExport(format exportFormat) tea.Cmd {
	snapshot := a.deps.Trip.State()
	day, _ := a.deps.Trip.Day(a.itinerary.dayIdx)
	dir := a.deps.ExportDir
	title := a.deps.Title
	stamp := a.deps.Now().Format("2006-01-02")

	return func() tea.Msg {
		var (
			path string
			err  error
		)
		switch format {
		case exportDayHTML:
			if day.Date == "" {
				return statusMsg{text: "Export error: no day selected", isError: true}
			}
			path = filepath.Join(dir, fmt.Sprintf("voyage-day-%s.html", day.Date))
			err = export.ToItineraryHTML(fmt.Sprintf("%s · Day %d", title, day.DayNumber), []trip.DayPlan{day}, path)
		case exportItineraryHTML:
			path = filepath.Join(dir, fmt.Sprintf("voyage-itinerary-%s.html", stamp))
			err = export.ToItineraryHTML(title, snapshot.Itinerary, path)
		case exportBudgetHTML:
			path = filepath.Join(dir, fmt.Sprintf("voyage-budget-%s.html", stamp))
			err = export.ToBudgetHTML(snapshot, path)
		case exportCSV:
			path = filepath.Join(dir, fmt.Sprintf("voyage-activities-%s.csv", stamp))
			err = export.ToCSV(snapshot.Itinerary, path)
		case exportJSON:
			path = filepath.Join(dir, fmt.Sprintf("voyage-budget-%s.json", stamp))
			err = export.ToJSON(snapshot, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
