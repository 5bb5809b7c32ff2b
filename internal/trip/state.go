package trip

// Currency is one of the two currencies the planner knows about.
type Currency string

const (
	TWD Currency = "TWD"
	MYR Currency = "MYR"
)

// Valid reports whether c is TWD or MYR.
func (c Currency) Valid() bool { return c == TWD || c == MYR }

// Defaults seed a fresh state.
const (
	DefaultExchangeRate   = 0.15 // 1 TWD = 0.15 MYR
	DefaultBudgetLimitMYR = 5000
)

// TransportLeg is a pre-departure logistics line item such as an airport
// transfer. Its cost is in Currency.
type TransportLeg struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Method   string   `json:"method"`
	Cost     float64  `json:"cost"`
	Currency Currency `json:"currency"`
	Date     string   `json:"date,omitempty"`
}

// PreDeparture holds flights (always MYR) and the transfer legs.
type PreDeparture struct {
	FlightInfo          string         `json:"flightInfo"`
	FlightCostMYR       float64        `json:"flightCostMYR"`
	ReturnFlightInfo    string         `json:"returnFlightInfo"`
	ReturnFlightCostMYR float64        `json:"returnFlightCostMYR"`
	Transfers           []TransportLeg `json:"transfers"`
	Notes               string         `json:"notes"`
}

type WishlistItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Notes     string `json:"notes,omitempty"`
	MapURL    string `json:"mapUrl,omitempty"`
	Address   string `json:"address,omitempty"`
	IsLoading bool   `json:"isLoading,omitempty"`
}

type PackingCategory string

const (
	Clothing    PackingCategory = "Clothing"
	Electronics PackingCategory = "Electronics"
	Toiletries  PackingCategory = "Toiletries"
	Documents   PackingCategory = "Documents"
	Misc        PackingCategory = "Misc"
)

var PackingCategories = []PackingCategory{Clothing, Electronics, Toiletries, Documents, Misc}

type PackingItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category PackingCategory `json:"category"`
	IsPacked bool            `json:"isPacked"`
}

// WeatherCard is a best-effort forecast for one date.
type WeatherCard struct {
	Date       string `json:"date"`
	DayName    string `json:"dayName"`
	Condition  string `json:"condition"`
	Temp       string `json:"temp"`
	RainChance string `json:"rainChance"`
	Advice     string `json:"advice"`
}

// State is the aggregate root persisted as one JSON document.
type State struct {
	Wishlist        []WishlistItem `json:"shortlist"`
	PackingList     []PackingItem  `json:"packingList"`
	Itinerary       Itinerary      `json:"itinerary"`
	ExchangeRate    float64        `json:"exchangeRate"`
	DisplayCurrency Currency       `json:"displayCurrency"`
	BudgetLimitMYR  float64        `json:"budgetLimitMYR"`
	WeatherCache    []WeatherCard  `json:"weatherCache"`
	PreDeparture    PreDeparture   `json:"preDeparture"`
}

// DefaultState is the state of a first run: a freshly generated itinerary and
// empty collections.
func DefaultState(r Range) State {
	return State{
		Wishlist:        []WishlistItem{},
		PackingList:     []PackingItem{},
		Itinerary:       GenerateDays(r),
		ExchangeRate:    DefaultExchangeRate,
		DisplayCurrency: TWD,
		BudgetLimitMYR:  DefaultBudgetLimitMYR,
		WeatherCache:    []WeatherCard{},
		PreDeparture:    PreDeparture{Transfers: []TransportLeg{}},
	}
}

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.Wishlist = append([]WishlistItem{}, s.Wishlist...)
	out.PackingList = append([]PackingItem{}, s.PackingList...)
	out.Itinerary = s.Itinerary.clone()
	out.WeatherCache = append([]WeatherCard{}, s.WeatherCache...)
	out.PreDeparture.Transfers = append([]TransportLeg{}, s.PreDeparture.Transfers...)
	return out
}
