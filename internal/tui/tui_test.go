package tui

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/store"
	"github.com/sadopc/voyage/internal/trip"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	s := newTestStore(t)
	c := trip.NewContainer(s, trip.Options{
		Range:  trip.MustRange("2025-12-15", "2025-12-18"),
		Region: "Taiwan",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	c.Load()
	return Deps{
		Trip:         c,
		Store:        s,
		Lookup:       lookup.New(nil, lookup.Options{Region: "Taiwan"}),
		Title:        "Taipei",
		ExportDir:    t.TempDir(),
		WeatherDates: c.Range().Dates(3),
		Now:          func() time.Time { return time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func newTestApp(t *testing.T) App {
	t.Helper()
	app := NewApp(newTestDeps(t))
	app.width = 140
	app.height = 45
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

func addActivity(t *testing.T, c *trip.Container, date, name string) trip.Activity {
	t.Helper()
	a, ok, err := c.AddActivity(date, trip.Activity{Time: "10:00", Category: trip.Sightseeing, LocationName: name})
	if err != nil || !ok {
		t.Fatalf("add activity: ok=%v err=%v", ok, err)
	}
	return a
}

// ============================================================
// Helpers
// ============================================================

func TestClamp(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 0, 0},
		{-1, 3, 0},
		{2, 3, 2},
		{5, 3, 2},
	}
	for _, tt := range tests {
		if got := clamp(tt.i, tt.n); got != tt.want {
			t.Errorf("clamp(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Taipei", 10, "Taipei"},
		{"Taipei 101", 6, "Taipe…"},
		{"台北車站", 3, "台北…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestValidators(t *testing.T) {
	if requireText("label")("  ") == nil {
		t.Error("blank text should fail")
	}
	if requireText("label")("Grab") != nil {
		t.Error("text should pass")
	}
	if optionalDate("") != nil {
		t.Error("empty optional date should pass")
	}
	if optionalDate("2025-13-01") == nil {
		t.Error("bad date should fail")
	}
	if requireDate("") == nil {
		t.Error("empty required date should fail")
	}
	if validTime("9:5") == nil || validTime("9:30") == nil || validTime("25:00") == nil {
		t.Error("bad times should fail")
	}
	if validTime("09:30") != nil {
		t.Error("09:30 should pass")
	}
}

func TestAmountText(t *testing.T) {
	if amountText(0) != "" {
		t.Error("zero should render blank")
	}
	if got := amountText(120.5); got != "120.5" {
		t.Errorf("got %q", got)
	}
}

func TestOptions(t *testing.T) {
	opts := options(trip.PackingCategories)
	if len(opts) != len(trip.PackingCategories) {
		t.Fatalf("got %d options", len(opts))
	}
	if opts[0].Key != "Clothing" || opts[0].Value != trip.Clothing {
		t.Fatalf("first option = %+v", opts[0])
	}
}

func TestFailed(t *testing.T) {
	if failed("Save", nil) != nil {
		t.Fatal("nil error should give no command")
	}
	msg := failed("Save", errors.New("disk full"))()
	st, ok := msg.(statusMsg)
	if !ok || !st.isError || st.text != "Save: disk full" {
		t.Fatalf("got %#v", msg)
	}
}

// ============================================================
// App model
// ============================================================

func TestViewNames(t *testing.T) {
	expected := []string{"Voyage", "Itinerary", "Essentials", "Settings"}
	if len(viewNames) != len(expected) {
		t.Fatalf("expected %d view names, got %d", len(expected), len(viewNames))
	}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestNewApp(t *testing.T) {
	app := NewApp(newTestDeps(t))

	if app.activeView != viewDashboard {
		t.Fatal("default view should be the dashboard")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("overlays should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestDeps(t))
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t)
	addActivity(t, app.deps.Trip, "2025-12-15", "Taipei 101")

	for v := range viewNames {
		app.activeView = viewState(v)
		if out := app.View(); out == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t)
	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
	if !strings.Contains(header, "Taipei") {
		t.Fatal("header missing trip title")
	}
}

func TestAppTabKeys(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(runes("2"))
	app = m.(App)
	if app.activeView != viewItinerary {
		t.Fatalf("view = %d, want itinerary", app.activeView)
	}
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewEssentials {
		t.Fatalf("view = %d, want essentials", app.activeView)
	}
	m, _ = app.Update(runes("4"))
	app = m.(App)
	m, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = m.(App)
	if app.activeView != viewDashboard {
		t.Fatalf("tab should wrap to the dashboard, got %d", app.activeView)
	}
}

func TestAppRemembersActiveTab(t *testing.T) {
	deps := newTestDeps(t)
	app := NewApp(deps)

	m, _ := app.Update(runes("3"))
	app = m.(App)
	if got := deps.Store.GetIntSetting(store.SettingActiveTab, -1); got != int(viewEssentials) {
		t.Fatalf("stored tab = %d, want %d", got, viewEssentials)
	}

	reopened := NewApp(deps)
	if reopened.activeView != viewEssentials {
		t.Fatalf("reopened view = %d, want essentials", reopened.activeView)
	}
}

func TestAppClampsStoredTab(t *testing.T) {
	deps := newTestDeps(t)
	deps.Store.SetIntSetting(store.SettingActiveTab, 42)

	app := NewApp(deps)
	if app.activeView != viewSettings {
		t.Fatalf("view = %d, want settings", app.activeView)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(statusMsg{text: "saved"})
	app = m.(App)
	if !strings.Contains(app.renderFooter(), "saved") {
		t.Fatal("footer should contain status message")
	}

	m, _ = app.Update(statusMsg{text: "boom", isError: true})
	app = m.(App)
	if !app.statusError || app.status != "boom" {
		t.Fatalf("status = %q error=%v", app.status, app.statusError)
	}
}

func TestAppFooterShowsTotal(t *testing.T) {
	app := newTestApp(t)
	if !strings.Contains(app.renderFooter(), "NT$ 0") {
		t.Fatal("footer should show the trip total")
	}
}

func TestAppMergesPlaceByID(t *testing.T) {
	app := newTestApp(t)
	c := app.deps.Trip
	keep, _ := c.AddWishlist(trip.WishlistItem{Name: "Jiufen", Notes: "mine"})
	target, _ := c.AddWishlist(trip.WishlistItem{Name: "raohe", IsLoading: true})

	place := lookup.Place{Name: "Raohe Night Market", Address: "Raohe St", MapURL: "https://maps.google.com/x"}
	app.Update(placeFoundMsg{id: target.ID, place: place})

	s := c.State()
	if len(s.Wishlist) != 2 {
		t.Fatalf("wishlist len = %d", len(s.Wishlist))
	}
	got := s.Wishlist[0]
	if got.ID != target.ID || got.Name != "Raohe Night Market" || got.Address != "Raohe St" || got.IsLoading {
		t.Fatalf("merged item = %+v", got)
	}
	if s.Wishlist[1].ID != keep.ID || s.Wishlist[1].Notes != "mine" {
		t.Fatalf("other item changed: %+v", s.Wishlist[1])
	}
}

func TestAppDropsPlaceForRemovedItem(t *testing.T) {
	app := newTestApp(t)
	c := app.deps.Trip
	item, _ := c.AddWishlist(trip.WishlistItem{Name: "gone", IsLoading: true})
	if _, err := c.RemoveWishlist(item.ID); err != nil {
		t.Fatal(err)
	}

	_, cmd := app.Update(placeFoundMsg{id: item.ID, place: lookup.Place{Name: "Gone"}})
	if cmd != nil {
		t.Fatal("late lookup for a removed item should be silent")
	}
	if len(c.State().Wishlist) != 0 {
		t.Fatal("removed item came back")
	}
}

func TestAppAppliesActivityPlace(t *testing.T) {
	app := newTestApp(t)
	c := app.deps.Trip
	a := addActivity(t, c, "2025-12-16", "Longshan Temple")

	app.Update(activityPlaceMsg{date: "2025-12-16", id: a.ID, place: lookup.Place{
		Address:     "No. 211, Guangzhou St",
		MapURL:      "https://maps.google.com/longshan",
		Description: lookup.Localized{EN: "Historic temple"},
	}})

	day, _ := c.Day(c.DayIndex("2025-12-16"))
	got := day.Activities[0]
	if got.LocationAddress != "No. 211, Guangzhou St" || got.GoogleMapsURL != "https://maps.google.com/longshan" {
		t.Fatalf("activity = %+v", got)
	}
	if got.Notes != "Historic temple" {
		t.Fatalf("notes = %q", got.Notes)
	}
}

func TestAppWeather(t *testing.T) {
	app := newTestApp(t)
	c := app.deps.Trip
	cards := []trip.WeatherCard{{Date: "2025-12-15", DayName: "Mon", Condition: "Cloudy"}}

	app.Update(weatherMsg{cards: cards})
	if got := c.State().WeatherCache; len(got) != 1 || got[0].Condition != "Cloudy" {
		t.Fatalf("cache = %+v", got)
	}

	app.Update(weatherMsg{cards: []trip.WeatherCard{}})
	if got := c.State().WeatherCache; len(got) != 1 {
		t.Fatal("empty forecast should keep the cache")
	}
}

// ============================================================
// Export
// ============================================================

func TestExportPickerNavigation(t *testing.T) {
	app := newTestApp(t)

	m, _ := app.Update(runes("e"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	for range exportFormats {
		m, _ = app.Update(downKey)
		app = m.(App)
	}
	if app.exportCursor != len(exportFormats)-1 {
		t.Fatalf("cursor = %d", app.exportCursor)
	}
	m, _ = app.Update(escKey)
	app = m.(App)
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestDoExportWritesFiles(t *testing.T) {
	app := newTestApp(t)
	addActivity(t, app.deps.Trip, "2025-12-15", "Taipei 101")

	want := map[exportFormat]string{
		exportDayHTML:       "voyage-day-2025-12-15.html",
		exportItineraryHTML: "voyage-itinerary-2025-12-01.html",
		exportBudgetHTML:    "voyage-budget-2025-12-01.html",
		exportCSV:           "voyage-activities-2025-12-01.csv",
		exportJSON:          "voyage-budget-2025-12-01.json",
	}
	for format, name := range want {
		msg := app.doExport(format)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: got %#v", format, msg)
		}
		if done.path != filepath.Join(app.deps.ExportDir, name) {
			t.Fatalf("format %d: path = %s", format, done.path)
		}
		if _, err := os.Stat(done.path); err != nil {
			t.Fatalf("format %d: %v", format, err)
		}
	}
}

func TestDoExportUsesSnapshot(t *testing.T) {
	app := newTestApp(t)
	a := addActivity(t, app.deps.Trip, "2025-12-15", "Taipei 101")

	cmd := app.doExport(exportCSV)
	if _, err := app.deps.Trip.RemoveActivity("2025-12-15", a.ID); err != nil {
		t.Fatal(err)
	}
	done := cmd().(exportDoneMsg)

	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Taipei 101") {
		t.Fatal("export should reflect the state when it was requested")
	}
}

func TestDoExportBadDir(t *testing.T) {
	app := newTestApp(t)
	app.deps.ExportDir = filepath.Join(t.TempDir(), "missing", "dir")

	msg := app.doExport(exportJSON)()
	st, ok := msg.(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardCurrencyToggle(t *testing.T) {
	deps := newTestDeps(t)
	d := newDashboardModel(deps.Trip, deps.Now)

	d, _ = d.update(runes("c"))
	if deps.Trip.State().DisplayCurrency != trip.MYR {
		t.Fatal("c should switch to MYR")
	}
	d, _ = d.update(runes("c"))
	if deps.Trip.State().DisplayCurrency != trip.TWD {
		t.Fatal("c should switch back to TWD")
	}
}

func TestDashboardDeleteTransfer(t *testing.T) {
	deps := newTestDeps(t)
	c := deps.Trip
	first, _ := c.SaveTransfer(trip.TransportLeg{Label: "To airport", Cost: 300, Currency: trip.TWD})
	c.SaveTransfer(trip.TransportLeg{Label: "Parking", Cost: 80, Currency: trip.MYR})

	d := newDashboardModel(c, deps.Now)
	d, _ = d.update(downKey)
	d, _ = d.update(runes("d"))

	legs := c.State().PreDeparture.Transfers
	if len(legs) != 1 || legs[0].ID != first.ID {
		t.Fatalf("transfers = %+v", legs)
	}
	if d.cursor != 0 {
		t.Fatalf("cursor = %d", d.cursor)
	}
}

func TestDashboardTransferFormOpens(t *testing.T) {
	deps := newTestDeps(t)
	d := newDashboardModel(deps.Trip, deps.Now)

	d, _ = d.update(runes("n"))
	if !d.formActive || d.form == nil {
		t.Fatal("n should open the transfer form")
	}
	d, _ = d.update(escKey)
	if d.formActive {
		t.Fatal("esc should cancel the form")
	}
}

func TestDashboardCountdown(t *testing.T) {
	deps := newTestDeps(t)
	d := newDashboardModel(deps.Trip, deps.Now)
	d.setSize(140, 40)

	if out := d.view(); !strings.Contains(out, "14 days to go") {
		t.Fatal("countdown missing from dashboard")
	}

	d, _ = d.update(tickMsg(time.Date(2025, 12, 16, 9, 0, 0, 0, time.UTC)))
	if out := d.view(); !strings.Contains(out, "Day 2 of 4") {
		t.Fatal("in-trip day counter missing")
	}
}

// ============================================================
// Itinerary
// ============================================================

func TestItineraryRemembersSelectedDay(t *testing.T) {
	deps := newTestDeps(t)
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)

	m, _ = m.update(rightKey)
	if m.dayIdx != 1 {
		t.Fatalf("dayIdx = %d, want 1", m.dayIdx)
	}
	if got := deps.Store.GetIntSetting(store.SettingSelectedDay, 0); got != 1 {
		t.Fatalf("stored day = %d, want 1", got)
	}

	again := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)
	if again.dayIdx != 1 {
		t.Fatalf("restored dayIdx = %d, want 1", again.dayIdx)
	}
}

func TestItineraryStoredDayIsClamped(t *testing.T) {
	deps := newTestDeps(t)
	if err := deps.Store.SetIntSetting(store.SettingSelectedDay, 99); err != nil {
		t.Fatal(err)
	}
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)
	if m.dayIdx != 3 {
		t.Fatalf("dayIdx = %d, want 3", m.dayIdx)
	}
}

func TestItineraryJumpToDate(t *testing.T) {
	deps := newTestDeps(t)
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)

	m, _ = m.update(runes("g"))
	if !m.jumping {
		t.Fatal("g should open the date prompt")
	}
	m.jump.SetValue("2025-12-17")
	m, _ = m.update(enterKey)
	if m.jumping || m.dayIdx != 2 {
		t.Fatalf("jumping=%v dayIdx=%d", m.jumping, m.dayIdx)
	}
}

func TestItineraryJumpOutsideTrip(t *testing.T) {
	deps := newTestDeps(t)
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)

	m.jumping = true
	m.jump.SetValue("2026-02-01")
	m, cmd := m.update(enterKey)
	if m.dayIdx != 0 {
		t.Fatalf("dayIdx = %d", m.dayIdx)
	}
	if cmd == nil {
		t.Fatal("expected an error status")
	}
	if st, ok := cmd().(statusMsg); !ok || !st.isError {
		t.Fatal("expected an error status")
	}
	if len(deps.Trip.State().Itinerary) != 4 {
		t.Fatal("itinerary should be unchanged")
	}
}

func TestItineraryDeleteActivity(t *testing.T) {
	deps := newTestDeps(t)
	addActivity(t, deps.Trip, "2025-12-15", "Taipei 101")
	addActivity(t, deps.Trip, "2025-12-15", "Din Tai Fung")

	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)
	m, _ = m.update(downKey)
	m, _ = m.update(runes("d"))

	day, _ := deps.Trip.Day(0)
	if len(day.Activities) != 1 {
		t.Fatalf("activities = %d", len(day.Activities))
	}
	if m.cursor != 0 {
		t.Fatalf("cursor = %d", m.cursor)
	}
}

func TestItineraryFormActivity(t *testing.T) {
	deps := newTestDeps(t)
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)

	m.editing = trip.Activity{LocationName: "Ximending", LocationAddress: "Wanhua", GoogleMapsURL: "https://maps.google.com/x"}
	*m.formCategory = trip.Food
	*m.formTime = "12:30"
	*m.formLocation = " Ximending "
	*m.formMeal = trip.StreetFood
	*m.formCost = "1,250"
	*m.formArrCost = "99"

	a := m.formActivity()
	if a.MealCostTWD != 1250 || a.ArrivalCostTWD != 0 || a.TicketCostTWD != 0 {
		t.Fatalf("costs = %+v", a)
	}
	if a.LocationAddress != "Wanhua" {
		t.Fatal("unchanged location should keep its address")
	}

	*m.formLocation = "Songshan"
	a = m.formActivity()
	if a.LocationAddress != "" || a.GoogleMapsURL != "" {
		t.Fatal("renamed location should drop the old address")
	}
}

func TestItineraryCompletedFormMovesCursorToNewActivity(t *testing.T) {
	deps := newTestDeps(t)
	addActivity(t, deps.Trip, "2025-12-15", "Breakfast")
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)

	m, _ = m.showActivityForm(trip.Activity{Category: trip.Other, Time: "23:00"})
	*m.formLocation = "Raohe Night Market"
	m.form.State = huh.StateCompleted

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.formActive {
		t.Fatal("form should close once completed")
	}
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	if st, ok := cmd().(statusMsg); !ok || st.isError {
		t.Fatalf("status = %+v", st)
	}
	day, _ := deps.Trip.Day(0)
	if len(day.Activities) != 2 || m.cursor != 1 {
		t.Fatalf("activities = %d, cursor = %d", len(day.Activities), m.cursor)
	}
}

func TestItineraryLookupOffline(t *testing.T) {
	deps := newTestDeps(t)
	addActivity(t, deps.Trip, "2025-12-15", "Taipei 101")
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)

	_, cmd := m.update(runes("f"))
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	st, ok := cmd().(statusMsg)
	if !ok || !strings.Contains(st.text, "offline") {
		t.Fatalf("got %#v", st)
	}
}

func TestItineraryLogToggle(t *testing.T) {
	deps := newTestDeps(t)
	addActivity(t, deps.Trip, "2025-12-16", "Elephant Mountain")
	m := newItineraryModel(deps.Trip, deps.Store, deps.Lookup)
	m.setSize(140, 40)

	m, _ = m.update(runes("v"))
	if !m.showLog || !strings.Contains(m.view(), "Elephant Mountain") {
		t.Fatal("v should show the sightseeing log")
	}
	m, _ = m.update(escKey)
	if m.showLog {
		t.Fatal("esc should close the log")
	}
}

// ============================================================
// Essentials
// ============================================================

func TestEssentialsAddPlaceOffline(t *testing.T) {
	deps := newTestDeps(t)
	e := newEssentialsModel(deps.Trip, deps.Lookup, deps.WeatherDates)

	e, cmd := e.addPlace("  Jiufen Old Street ")
	if cmd == nil {
		t.Fatal("expected a lookup command")
	}
	s := deps.Trip.State()
	if len(s.Wishlist) != 1 || !s.Wishlist[0].IsLoading || s.Wishlist[0].Name != "Jiufen Old Street" {
		t.Fatalf("wishlist = %+v", s.Wishlist)
	}

	found, ok := cmd().(placeFoundMsg)
	if !ok || found.id != s.Wishlist[0].ID {
		t.Fatalf("got %#v", found)
	}
	if found.place.MapURL == "" {
		t.Fatal("degraded place should still carry a map link")
	}
}

func TestEssentialsAddPlaceRequiresName(t *testing.T) {
	deps := newTestDeps(t)
	e := newEssentialsModel(deps.Trip, deps.Lookup, deps.WeatherDates)

	_, cmd := e.addPlace("   ")
	if st, ok := cmd().(statusMsg); !ok || !st.isError {
		t.Fatal("blank place should be rejected")
	}
	if len(deps.Trip.State().Wishlist) != 0 {
		t.Fatal("nothing should be added")
	}
}

func TestEssentialsPacking(t *testing.T) {
	deps := newTestDeps(t)
	c := deps.Trip
	c.AddPacking("Adapter", trip.Electronics)
	c.AddPacking("Passport", trip.Documents)

	e := newEssentialsModel(c, deps.Lookup, deps.WeatherDates)
	e, _ = e.update(rightKey)
	if e.focus != sectionPacking {
		t.Fatalf("focus = %d", e.focus)
	}

	e, _ = e.update(enterKey)
	if items := c.State().PackingList; !items[0].IsPacked || items[1].IsPacked {
		t.Fatalf("packing = %+v", items)
	}

	e, _ = e.update(downKey)
	e, _ = e.update(runes("d"))
	items := c.State().PackingList
	if len(items) != 1 || items[0].Name != "Passport" {
		t.Fatalf("packing = %+v", items)
	}
}

func TestEssentialsWeatherOffline(t *testing.T) {
	deps := newTestDeps(t)
	e := newEssentialsModel(deps.Trip, deps.Lookup, deps.WeatherDates)

	e, cmd := e.update(runes("r"))
	if e.fetching {
		t.Fatal("offline refresh should not start a fetch")
	}
	if st, ok := cmd().(statusMsg); !ok || !strings.Contains(st.text, "offline") {
		t.Fatal("expected an offline notice")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSave(t *testing.T) {
	deps := newTestDeps(t)
	s := newSettingsModel(deps.Trip, deps.Store)

	*s.exchangeRate = "0.2"
	*s.budgetLimit = "6000"
	*s.currency = trip.MYR
	*s.flightInfo = "MH366"
	*s.flightCost = "800"
	*s.returnInfo = ""
	*s.returnCost = ""
	*s.logisticsNote = "Check in online"
	if err := s.saveSettings(); err != nil {
		t.Fatal(err)
	}

	st := deps.Trip.State()
	if st.ExchangeRate != 0.2 || st.BudgetLimitMYR != 6000 || st.DisplayCurrency != trip.MYR {
		t.Fatalf("money settings = %v %v %v", st.ExchangeRate, st.BudgetLimitMYR, st.DisplayCurrency)
	}
	if st.PreDeparture.FlightInfo != "MH366" || st.PreDeparture.FlightCostMYR != 800 || st.PreDeparture.Notes != "Check in online" {
		t.Fatalf("pre-departure = %+v", st.PreDeparture)
	}
}

func TestSettingsRefreshListsRevisions(t *testing.T) {
	deps := newTestDeps(t)
	deps.Trip.AddPacking("Umbrella", trip.Misc)
	s := newSettingsModel(deps.Trip, deps.Store)

	msg := s.refresh()()
	s, _ = s.update(msg)
	if len(s.revisions) == 0 {
		t.Fatal("expected at least one revision")
	}
}

func TestSettingsViewListsStoredPreferences(t *testing.T) {
	deps := newTestDeps(t)
	deps.Store.SetIntSetting(store.SettingSelectedDay, 2)
	s := newSettingsModel(deps.Trip, deps.Store)
	s.setSize(140, 40)

	s, _ = s.update(s.refresh()())
	if len(s.stored) < 2 {
		t.Fatalf("stored settings = %+v", s.stored)
	}
	view := s.view()
	for _, want := range []string{"Stored preferences", store.SettingSelectedDay, store.SettingActiveTab} {
		if !strings.Contains(view, want) {
			t.Errorf("settings view missing %q", want)
		}
	}
}

// ============================================================
// Key bindings and styles
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

func TestCategoryStyles(t *testing.T) {
	for _, c := range trip.Categories {
		if _, ok := categoryColors[c]; !ok {
			t.Errorf("no color for %s", c)
		}
		if categoryStyle(c).Render("x") == "" {
			t.Errorf("empty render for %s", c)
		}
	}
}
