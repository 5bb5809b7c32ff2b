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
	"github.com/sadopc/voyage/internal/trip"
)

type section int

const (
	sectionWishlist section = iota
	sectionPacking
	sectionWeather
)

// essentialsModel holds the wishlist, the packing list and the forecast.
type essentialsModel struct {
	trip   *trip.Container
	lookup *lookup.Client
	dates  []string // forecast dates
	width  int
	height int

	focus      section
	wishCursor int
	packCursor int
	fetching   bool

	adding bool
	search textinput.Model

	formActive   bool
	form         *huh.Form
	formName     *string
	formCategory *trip.PackingCategory
}

func newEssentialsModel(c *trip.Container, l *lookup.Client, weatherDates []string) essentialsModel {
	ti := textinput.New()
	ti.Placeholder = "Place name, e.g. Raohe Night Market"
	ti.CharLimit = 80
	ti.Width = 40

	name := ""
	cat := trip.Misc
	return essentialsModel{
		trip:         c,
		lookup:       l,
		dates:        weatherDates,
		search:       ti,
		formName:     &name,
		formCategory: &cat,
	}
}

func (e *essentialsModel) setSize(w, h int) {
	e.width = w
	e.height = h
}

func (e essentialsModel) isCapturing() bool {
	return e.formActive || e.adding
}

func (e essentialsModel) update(msg tea.Msg) (essentialsModel, tea.Cmd) {
	if e.formActive && e.form != nil {
		return e.updateForm(msg)
	}
	if e.adding {
		return e.updateSearch(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}

	s := e.trip.State()
	switch {
	case key.Matches(keyMsg, keys.Left):
		if e.focus > sectionWishlist {
			e.focus--
		}
	case key.Matches(keyMsg, keys.Right):
		if e.focus < sectionWeather {
			e.focus++
		}
	case key.Matches(keyMsg, keys.Refresh):
		return e.fetchWeather()
	}

	switch e.focus {
	case sectionWishlist:
		return e.updateWishlist(keyMsg, s.Wishlist)
	case sectionPacking:
		return e.updatePacking(keyMsg, s.PackingList)
	}
	return e, nil
}

func (e essentialsModel) updateWishlist(msg tea.KeyMsg, items []trip.WishlistItem) (essentialsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if e.wishCursor > 0 {
			e.wishCursor--
		}
	case key.Matches(msg, keys.Down):
		if e.wishCursor < len(items)-1 {
			e.wishCursor++
		}
	case key.Matches(msg, keys.New):
		e.adding = true
		e.search.SetValue("")
		e.search.Focus()
		return e, textinput.Blink
	case key.Matches(msg, keys.Delete):
		if len(items) == 0 {
			return e, nil
		}
		item := items[clamp(e.wishCursor, len(items))]
		_, err := e.trip.RemoveWishlist(item.ID)
		e.wishCursor = clamp(e.wishCursor, len(items)-1)
		if err != nil {
			return e, failed("Remove place", err)
		}
		return e, statusCmd("Removed " + item.Name)
	}
	return e, nil
}

func (e essentialsModel) updatePacking(msg tea.KeyMsg, items []trip.PackingItem) (essentialsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if e.packCursor > 0 {
			e.packCursor--
		}
	case key.Matches(msg, keys.Down):
		if e.packCursor < len(items)-1 {
			e.packCursor++
		}
	case key.Matches(msg, keys.New):
		return e.showPackingForm()
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if len(items) > 0 {
			_, err := e.trip.TogglePacked(items[clamp(e.packCursor, len(items))].ID)
			return e, failed("Toggle item", err)
		}
	case key.Matches(msg, keys.Delete):
		if len(items) > 0 {
			_, err := e.trip.RemovePacking(items[clamp(e.packCursor, len(items))].ID)
			e.packCursor = clamp(e.packCursor, len(items)-1)
			return e, failed("Remove item", err)
		}
	}
	return e, nil
}

func (e essentialsModel) updateSearch(msg tea.Msg) (essentialsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			e.adding = false
			e.search.Blur()
			return e, nil
		case "enter":
			e.adding = false
			e.search.Blur()
			return e.addPlace(e.search.Value())
		}
	}
	var cmd tea.Cmd
	e.search, cmd = e.search.Update(msg)
	return e, cmd
}

// addPlace stores the place at once and fills in its details when the
// lookup comes back.
func (e essentialsModel) addPlace(query string) (essentialsModel, tea.Cmd) {
	query = strings.TrimSpace(query)
	item, err := e.trip.AddWishlist(trip.WishlistItem{Name: query, IsLoading: true})
	if err != nil {
		return e, failed("Add place", err)
	}
	e.wishCursor = 0

	client := e.lookup
	return e, func() tea.Msg {
		return placeFoundMsg{id: item.ID, place: client.SearchPlace(context.Background(), query)}
	}
}

func (e essentialsModel) fetchWeather() (essentialsModel, tea.Cmd) {
	if e.fetching {
		return e, nil
	}
	if !e.lookup.Online() {
		return e, statusCmd("Weather is offline (no API key)")
	}
	e.fetching = true
	client := e.lookup
	dates := append([]string(nil), e.dates...)
	return e, tea.Batch(
		statusCmd("Fetching forecast..."),
		func() tea.Msg {
			return weatherMsg{cards: client.Weather(context.Background(), dates)}
		},
	)
}

func (e essentialsModel) applyWeather(msg weatherMsg) (essentialsModel, tea.Cmd) {
	e.fetching = false
	replaced, err := e.trip.SetWeather(msg.cards)
	if err != nil {
		return e, failed("Save forecast", err)
	}
	if !replaced {
		return e, statusCmd("No forecast available")
	}
	return e, statusCmd(fmt.Sprintf("Forecast updated for %d days", len(msg.cards)))
}

func (e essentialsModel) showPackingForm() (essentialsModel, tea.Cmd) {
	*e.formName = ""
	*e.formCategory = trip.Misc
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Item").Placeholder("Passport").Value(e.formName).
				Validate(requireText("item")),
			huh.NewSelect[trip.PackingCategory]().Title("Category").
				Options(options(trip.PackingCategories)...).Value(e.formCategory),
		),
	).WithShowHelp(true).WithShowErrors(true)
	e.formActive = true
	return e, e.form.Init()
}

func (e essentialsModel) updateForm(msg tea.Msg) (essentialsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			e.formActive = false
			e.form = nil
			return e, nil
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		e.formActive = false
		item, err := e.trip.AddPacking(*e.formName, *e.formCategory)
		if err != nil {
			return e, failed("Add item", err)
		}
		e.packCursor = 0
		return e, statusCmd("Packing " + item.Name)
	}
	return e, cmd
}

func (e essentialsModel) view() string {
	w := e.width - 4

	if e.formActive && e.form != nil {
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Pack Item"), "", e.form.View()),
		)
	}

	s := e.trip.State()
	col := w/3 - 1
	if col < 24 {
		col = 24
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		e.renderWishlist(col, s.Wishlist),
		e.renderPacking(col, s.PackingList),
		e.renderWeather(w-2*col-2, s.WeatherCache),
	)
}

func (e essentialsModel) panel(sec section, w int) lipgloss.Style {
	if e.focus == sec {
		return activePanelStyle.Width(w)
	}
	return panelStyle.Width(w)
}

func (e essentialsModel) renderWishlist(w int, items []trip.WishlistItem) string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Wishlist (%d)", len(items))), "")
	if e.adding {
		rows = append(rows, e.search.View(), "")
	}
	if len(items) == 0 {
		rows = append(rows, mutedStyle.Render("No places yet. Press n."))
	}
	for i, it := range items {
		cursor := "  "
		style := normalItemStyle
		if e.focus == sectionWishlist && i == e.wishCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		name := truncate(it.Name, w-8)
		if it.IsLoading {
			name += mutedStyle.Render(" …")
		}
		rows = append(rows, style.Render(cursor+name))
		if it.Address != "" {
			rows = append(rows, mutedStyle.Render("    "+truncate(it.Address, w-10)))
		}
		if e.focus == sectionWishlist && i == e.wishCursor && it.Notes != "" {
			rows = append(rows, subtitleStyle.Render("    "+truncate(it.Notes, w-10)))
		}
	}
	rows = append(rows, "", mutedStyle.Render("n: add  d: remove"))
	return e.panel(sectionWishlist, w).Render(strings.Join(rows, "\n"))
}

func (e essentialsModel) renderPacking(w int, items []trip.PackingItem) string {
	packed := 0
	for _, it := range items {
		if it.IsPacked {
			packed++
		}
	}

	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Packing %d/%d", packed, len(items))), "")
	if len(items) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing to pack yet. Press n."))
	}
	for i, it := range items {
		cursor := "  "
		if e.focus == sectionPacking && i == e.packCursor {
			cursor = "> "
		}
		box := "[ ] "
		style := normalItemStyle
		if it.IsPacked {
			box = "[x] "
			style = doneItemStyle
		}
		if e.focus == sectionPacking && i == e.packCursor {
			style = style.Foreground(colorPrimary)
		}
		rows = append(rows, cursor+style.Render(box+truncate(it.Name, w-20))+
			mutedStyle.Render(" "+string(it.Category)))
	}
	rows = append(rows, "", mutedStyle.Render("n: add  space: pack  d: remove"))
	return e.panel(sectionPacking, w).Render(strings.Join(rows, "\n"))
}

func (e essentialsModel) renderWeather(w int, cards []trip.WeatherCard) string {
	var rows []string
	title := "Weather"
	if e.fetching {
		title += " (updating…)"
	}
	rows = append(rows, titleStyle.Render(title), "")
	if len(cards) == 0 {
		rows = append(rows, mutedStyle.Render("No forecast yet. Press r."))
	}
	for _, c := range cards {
		rows = append(rows,
			highlightStyle.Render(fmt.Sprintf("%s %s", c.DayName, c.Date)),
			fmt.Sprintf("  %s  %s  rain %s", c.Condition, c.Temp, c.RainChance),
		)
		if c.Advice != "" {
			rows = append(rows, mutedStyle.Render("  "+truncate(c.Advice, w-8)))
		}
		rows = append(rows, "")
	}
	rows = append(rows, mutedStyle.Render("r: refresh"))
	return e.panel(sectionWeather, w).Render(strings.Join(rows, "\n"))
}
