package trip

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// StateKey is the fixed key the state document is stored under.
const StateKey = "trip_state_v1"

// Persister is the on-device storage medium for the state document. Read
// returns nil data and a nil error when nothing has been stored yet.
type Persister interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// Options configure a Container.
type Options struct {
	Range  Range
	Region string // appended to synthesized map searches, e.g. "Taiwan"

	ExchangeRate   float64 // seed for a fresh state; DefaultExchangeRate when zero
	BudgetLimitMYR float64 // seed for a fresh state; DefaultBudgetLimitMYR when zero

	Logger *slog.Logger
}

// Container owns the trip state. Every mutating method runs to completion
// (validate, mutate, re-sort, persist) before returning and writes the whole
// document through to the Persister. It is not safe for concurrent use; the
// UI funnels every command through a single goroutine.
type Container struct {
	store Persister
	opts  Options
	log   *slog.Logger
	state State
}

// NewContainer returns a container holding a default state. Call Load to
// replace it with the persisted one.
func NewContainer(p Persister, opts Options) *Container {
	if opts.ExchangeRate == 0 {
		opts.ExchangeRate = DefaultExchangeRate
	}
	if opts.BudgetLimitMYR == 0 {
		opts.BudgetLimitMYR = DefaultBudgetLimitMYR
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	c := &Container{store: p, opts: opts, log: log}
	c.state = c.defaultState()
	return c
}

func (c *Container) defaultState() State {
	s := DefaultState(c.opts.Range)
	s.ExchangeRate = c.opts.ExchangeRate
	s.BudgetLimitMYR = c.opts.BudgetLimitMYR
	return s
}

// Range is the fixed trip date range.
func (c *Container) Range() Range { return c.opts.Range }

// Region is the place name appended to synthesized map searches.
func (c *Container) Region() string { return c.opts.Region }

// State returns a deep copy of the current state.
func (c *Container) State() State { return c.state.Clone() }

// Load reads the persisted document. A missing, unreadable or structurally
// invalid document, or one without any usable days, is repaired by falling
// back to a freshly generated itinerary. Days with a bad or repeated date are
// dropped and the rest are kept. repaired reports when either happened.
func (c *Container) Load() (repaired bool) {
	data, err := c.store.Read(StateKey)
	if err != nil {
		c.log.Warn("read trip state, starting fresh", "error", err)
		c.state = c.defaultState()
		return true
	}
	if len(data) == 0 {
		c.log.Info("no saved trip state, generating itinerary",
			"start", c.opts.Range.Start.Format(DateLayout), "days", c.opts.Range.Days())
		c.state = c.defaultState()
		return true
	}
	s, dropped, err := decodeState(data)
	if err != nil {
		c.log.Warn("saved trip state is corrupt, starting fresh", "error", err)
		c.state = c.defaultState()
		return true
	}
	if len(s.Itinerary) == 0 {
		c.log.Warn("saved trip state has no usable itinerary, regenerating days", "dropped", dropped)
		s.Itinerary = GenerateDays(c.opts.Range)
		c.state = s
		return true
	}
	c.state = s
	if dropped > 0 {
		c.log.Warn("dropped unusable days from saved itinerary", "dropped", dropped, "kept", len(s.Itinerary))
		return true
	}
	return false
}

// Save writes the whole state document.
func (c *Container) Save() error {
	data, err := json.Marshal(c.state)
	if err != nil {
		return fmt.Errorf("encode trip state: %w", err)
	}
	if err := c.store.Write(StateKey, data); err != nil {
		c.log.Error("save trip state", "error", err)
		return fmt.Errorf("save trip state: %w", err)
	}
	return nil
}

// persistedState mirrors State with pointer fields so absent values can be
// told apart from zero ones.
type persistedState struct {
	Wishlist        []WishlistItem `json:"shortlist"`
	PackingList     []PackingItem  `json:"packingList"`
	Itinerary       []DayPlan      `json:"itinerary"`
	ExchangeRate    *float64       `json:"exchangeRate"`
	DisplayCurrency Currency       `json:"displayCurrency"`
	BudgetLimitMYR  *float64       `json:"budgetLimitMYR"`
	WeatherCache    []WeatherCard  `json:"weatherCache"`
	PreDeparture    *PreDeparture  `json:"preDeparture"`
}

// decodeState turns a stored document into a State, filling defaults for
// anything absent. Days with an unparseable or repeated date are left out and
// counted in dropped.
func decodeState(data []byte) (s State, dropped int, err error) {
	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return State{}, 0, fmt.Errorf("decode trip state: %w", err)
	}

	s = State{
		Wishlist:        nonNil(p.Wishlist),
		PackingList:     nonNil(p.PackingList),
		ExchangeRate:    DefaultExchangeRate,
		DisplayCurrency: p.DisplayCurrency,
		BudgetLimitMYR:  DefaultBudgetLimitMYR,
		WeatherCache:    nonNil(p.WeatherCache),
		PreDeparture:    PreDeparture{Transfers: []TransportLeg{}},
	}
	if p.ExchangeRate != nil {
		s.ExchangeRate = sanitize(*p.ExchangeRate)
	}
	if p.BudgetLimitMYR != nil {
		s.BudgetLimitMYR = sanitize(*p.BudgetLimitMYR)
	}
	if !s.DisplayCurrency.Valid() {
		s.DisplayCurrency = TWD
	}
	if p.PreDeparture != nil {
		s.PreDeparture = *p.PreDeparture
		s.PreDeparture.Transfers = nonNil(s.PreDeparture.Transfers)
	}

	s.Itinerary, dropped = usableDays(p.Itinerary)
	return s, dropped, nil
}

// usableDays keeps the first day seen for each valid date.
func usableDays(in []DayPlan) (Itinerary, int) {
	seen := make(map[string]bool, len(in))
	days := make(Itinerary, 0, len(in))
	for _, d := range in {
		if _, err := ParseDate(d.Date); err != nil || seen[d.Date] {
			continue
		}
		seen[d.Date] = true
		d.Activities = nonNil(d.Activities)
		days = append(days, d)
	}
	days.sortDays()
	return days, len(in) - len(days)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// commit persists after a successful mutation. A failed write leaves the
// in-memory state mutated; the next successful save catches the store up.
func (c *Container) commit() error {
	return c.Save()
}

// --- Itinerary ---

// Day returns the day at position i of the sorted itinerary.
func (c *Container) Day(i int) (DayPlan, bool) {
	d, ok := c.state.Itinerary.ByIndex(i)
	if !ok {
		return DayPlan{}, false
	}
	d.Activities = append([]Activity{}, d.Activities...)
	return d, true
}

// DayIndex returns the position of the day with the given date, or -1.
func (c *Container) DayIndex(date string) int {
	return c.state.Itinerary.ByDate(date)
}

// UpsertDay returns the index of the day for date, creating an empty day when
// the date is inside the trip but has no plan yet.
func (c *Container) UpsertDay(date string) (int, error) {
	before := len(c.state.Itinerary)
	i, err := c.state.Itinerary.Upsert(date, c.opts.Range)
	if err != nil {
		c.log.Debug("rejected day jump", "date", date, "error", err)
		return -1, err
	}
	if len(c.state.Itinerary) != before {
		return i, c.commit()
	}
	return i, nil
}

// UpdateSummary sets a day's reflection text.
func (c *Container) UpdateSummary(date, text string) (bool, error) {
	if !c.state.Itinerary.UpdateSummary(date, text) {
		return false, nil
	}
	return true, c.commit()
}

// AddActivity inserts an activity into the day with the given date.
func (c *Container) AddActivity(date string, a Activity) (Activity, bool, error) {
	i := c.state.Itinerary.ByDate(date)
	if i < 0 {
		return Activity{}, false, nil
	}
	saved, err := c.state.Itinerary[i].AddActivity(a, c.opts.Region)
	if err != nil {
		c.log.Debug("rejected activity", "date", date, "error", err)
		return Activity{}, true, err
	}
	return saved, true, c.commit()
}

// UpdateActivity replaces an activity of the day with the given date.
func (c *Container) UpdateActivity(date, id string, a Activity) (bool, error) {
	i := c.state.Itinerary.ByDate(date)
	if i < 0 {
		return false, nil
	}
	ok, err := c.state.Itinerary[i].UpdateActivity(id, a, c.opts.Region)
	if err != nil || !ok {
		return ok, err
	}
	return true, c.commit()
}

// RemoveActivity deletes an activity from the day with the given date.
func (c *Container) RemoveActivity(date, id string) (bool, error) {
	i := c.state.Itinerary.ByDate(date)
	if i < 0 || !c.state.Itinerary[i].RemoveActivity(id) {
		return false, nil
	}
	return true, c.commit()
}

// --- Budget ---

// Breakdown derives the current trip budget.
func (c *Container) Breakdown() Breakdown { return TripBreakdown(c.state) }

// Money renders a TWD amount in the current display currency.
func (c *Container) Money(amountTWD float64) string {
	return Money(amountTWD, c.state.DisplayCurrency, c.state.ExchangeRate)
}

// SetExchangeRate stores a user-entered rate (1 TWD in MYR). Non-numeric
// input keeps the previous rate. Zero and negative rates are accepted as
// entered; MYR figures stay blank until the rate is corrected.
func (c *Container) SetExchangeRate(input string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || sanitize(v) != v {
		return c.state.ExchangeRate, nil
	}
	c.state.ExchangeRate = v
	return v, c.commit()
}

// SetDisplayCurrency switches how totals are presented.
func (c *Container) SetDisplayCurrency(cur Currency) error {
	if !cur.Valid() {
		return fmt.Errorf("currency %q: %w", cur, ErrValidation)
	}
	c.state.DisplayCurrency = cur
	return c.commit()
}

// SetBudgetLimit stores the MYR spending cap shown on the dashboard.
func (c *Container) SetBudgetLimit(input string) error {
	c.state.BudgetLimitMYR = ParseAmount(input)
	return c.commit()
}

// --- Pre-departure ---

// Flight selects the outbound or the return flight.
type Flight int

const (
	Outbound Flight = iota
	Return
)

// SetFlight records a flight's description and its MYR cost.
func (c *Container) SetFlight(f Flight, info string, costMYR float64) error {
	costMYR = sanitize(costMYR)
	switch f {
	case Return:
		c.state.PreDeparture.ReturnFlightInfo = info
		c.state.PreDeparture.ReturnFlightCostMYR = costMYR
	default:
		c.state.PreDeparture.FlightInfo = info
		c.state.PreDeparture.FlightCostMYR = costMYR
	}
	return c.commit()
}

// SetLogisticsNotes stores the free-text pre-departure notes.
func (c *Container) SetLogisticsNotes(notes string) error {
	c.state.PreDeparture.Notes = notes
	return c.commit()
}

// SaveTransfer inserts a new leg (empty or unknown id) or replaces the leg
// with the same id.
func (c *Container) SaveTransfer(t TransportLeg) (TransportLeg, error) {
	if strings.TrimSpace(t.Label) == "" {
		return TransportLeg{}, fmt.Errorf("save transfer: label is required: %w", ErrValidation)
	}
	if t.Currency != MYR {
		t.Currency = TWD
	}
	t.Cost = sanitize(t.Cost)
	legs := c.state.PreDeparture.Transfers
	for i := range legs {
		if t.ID != "" && legs[i].ID == t.ID {
			legs[i] = t
			return t, c.commit()
		}
	}
	if t.ID == "" {
		t.ID = newID()
	}
	c.state.PreDeparture.Transfers = append(legs, t)
	return t, c.commit()
}

// RemoveTransfer deletes the leg with the given id.
func (c *Container) RemoveTransfer(id string) (bool, error) {
	legs := c.state.PreDeparture.Transfers
	for i := range legs {
		if legs[i].ID == id {
			c.state.PreDeparture.Transfers = append(legs[:i], legs[i+1:]...)
			return true, c.commit()
		}
	}
	return false, nil
}

// --- Wishlist ---

// AddWishlist puts a place at the top of the wishlist.
func (c *Container) AddWishlist(item WishlistItem) (WishlistItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return WishlistItem{}, fmt.Errorf("add wishlist item: name is required: %w", ErrValidation)
	}
	if item.ID == "" {
		item.ID = newID()
	}
	c.state.Wishlist = append([]WishlistItem{item}, c.state.Wishlist...)
	return item, c.commit()
}

// RemoveWishlist deletes the wishlist item with the given id.
func (c *Container) RemoveWishlist(id string) (bool, error) {
	for i, w := range c.state.Wishlist {
		if w.ID == id {
			c.state.Wishlist = append(c.state.Wishlist[:i], c.state.Wishlist[i+1:]...)
			return true, c.commit()
		}
	}
	return false, nil
}

// PlaceDetails is what a place lookup contributes to a wishlist item.
type PlaceDetails struct {
	Name    string
	Address string
	MapURL  string
	Notes   string
}

// MergePlace folds a finished lookup into the wishlist item with the given
// id, touching only that item. A lookup for an item that was removed in the
// meantime is dropped.
func (c *Container) MergePlace(id string, p PlaceDetails) (bool, error) {
	for i := range c.state.Wishlist {
		w := &c.state.Wishlist[i]
		if w.ID != id {
			continue
		}
		if p.Name != "" {
			w.Name = p.Name
		}
		if p.Address != "" {
			w.Address = p.Address
		}
		if p.MapURL != "" {
			w.MapURL = p.MapURL
		}
		if p.Notes != "" && w.Notes == "" {
			w.Notes = p.Notes
		}
		w.IsLoading = false
		return true, c.commit()
	}
	return false, nil
}

// --- Packing ---

// AddPacking puts an unpacked item at the top of the packing list.
func (c *Container) AddPacking(name string, cat PackingCategory) (PackingItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PackingItem{}, fmt.Errorf("add packing item: name is required: %w", ErrValidation)
	}
	if cat == "" {
		cat = Misc
	}
	item := PackingItem{ID: newID(), Name: name, Category: cat}
	c.state.PackingList = append([]PackingItem{item}, c.state.PackingList...)
	return item, c.commit()
}

// TogglePacked flips the packed flag of an item.
func (c *Container) TogglePacked(id string) (bool, error) {
	for i := range c.state.PackingList {
		if c.state.PackingList[i].ID == id {
			c.state.PackingList[i].IsPacked = !c.state.PackingList[i].IsPacked
			return true, c.commit()
		}
	}
	return false, nil
}

// RemovePacking deletes an item from the packing list.
func (c *Container) RemovePacking(id string) (bool, error) {
	for i, p := range c.state.PackingList {
		if p.ID == id {
			c.state.PackingList = append(c.state.PackingList[:i], c.state.PackingList[i+1:]...)
			return true, c.commit()
		}
	}
	return false, nil
}

// --- Weather ---

// SetWeather replaces the forecast cache. An empty result means no forecast
// was available and leaves the previous cache alone.
func (c *Container) SetWeather(cards []WeatherCard) (bool, error) {
	if len(cards) == 0 {
		return false, nil
	}
	c.state.WeatherCache = append([]WeatherCard{}, cards...)
	return true, c.commit()
}

// DaysUntilDeparture counts whole days until the trip starts.
func (c *Container) DaysUntilDeparture(now time.Time) int {
	return c.opts.Range.DaysUntil(now)
}
