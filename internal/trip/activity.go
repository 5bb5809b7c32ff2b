package trip

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Category decides which cost field of an Activity is the live one.
type Category string

const (
	Sightseeing Category = "Sightseeing"
	Food        Category = "Food"
	Transport   Category = "Transport"
	Other       Category = "Other"
)

// Categories lists every activity category in display order.
var Categories = []Category{Sightseeing, Food, Transport, Other}

type MealType string

const (
	Breakfast  MealType = "Breakfast"
	Brunch     MealType = "Brunch"
	Lunch      MealType = "Lunch"
	HighTea    MealType = "High Tea"
	Dinner     MealType = "Dinner"
	Supper     MealType = "Supper"
	Snack      MealType = "Snack"
	StreetFood MealType = "Street Food"
	Drink      MealType = "Drink"
	OtherMeal  MealType = "Other"
)

var MealTypes = []MealType{Breakfast, Brunch, Lunch, HighTea, Dinner, Supper, Snack, StreetFood, Drink, OtherMeal}

type TransportType string

const (
	MRT            TransportType = "MRT"
	Bus            TransportType = "Bus"
	TaxiUber       TransportType = "Taxi/Uber"
	HSR            TransportType = "HSR"
	Train          TransportType = "Train"
	Walking        TransportType = "Walking"
	YouBike        TransportType = "YouBike"
	Charter        TransportType = "Charter"
	Ferry          TransportType = "Ferry"
	Shuttle        TransportType = "Shuttle"
	OtherTransport TransportType = "Other"
)

var TransportTypes = []TransportType{MRT, Bus, TaxiUber, HSR, Train, Walking, YouBike, Charter, Ferry, Shuttle, OtherTransport}

// DefaultActivityTime is used for activities saved without a time.
const DefaultActivityTime = "09:00"

// Activity is one planned event within a day. All costs are in TWD.
type Activity struct {
	ID              string   `json:"id"`
	Time            string   `json:"time"`
	Category        Category `json:"category"`
	Description     string   `json:"description,omitempty"`
	LocationName    string   `json:"locationName"`
	LocationAddress string   `json:"locationAddress,omitempty"`
	GoogleMapsURL   string   `json:"googleMapsUrl,omitempty"`

	TransportType    TransportType `json:"transportType,omitempty"`
	TransportCostTWD float64       `json:"transportCostTWD"`

	MealType    MealType `json:"mealType,omitempty"`
	MealCostTWD float64  `json:"mealCostTWD"`

	ArrivalTransport TransportType `json:"arrivalTransport,omitempty"`
	ArrivalCostTWD   float64       `json:"arrivalCostTWD"`

	TicketCostTWD float64 `json:"ticketCostTWD"`
	Notes         string  `json:"notes,omitempty"`
}

// PrimaryCost is the value of the cost field selected by the category.
func (a Activity) PrimaryCost() float64 {
	switch a.Category {
	case Transport:
		return a.TransportCostTWD
	case Food:
		return a.MealCostTWD
	default:
		return a.TicketCostTWD
	}
}

// WithCost returns a copy of a whose primary cost field (chosen by category)
// holds amount and, for sightseeing, whose arrival cost holds arrival. Every
// other cost field is zeroed.
func (a Activity) WithCost(amount, arrival float64) Activity {
	a.TransportCostTWD, a.MealCostTWD, a.TicketCostTWD, a.ArrivalCostTWD = 0, 0, 0, 0
	switch a.Category {
	case Transport:
		a.TransportCostTWD = amount
	case Food:
		a.MealCostTWD = amount
	default:
		a.TicketCostTWD = amount
		if a.Category == Sightseeing {
			a.ArrivalCostTWD = arrival
		}
	}
	return a
}

// normalize applies the save-time invariants: the category's primary cost
// field is kept and the others are reset, arrival data survives only on
// sightseeing, and the maps link is synthesized when missing.
func (a Activity) normalize(region string) Activity {
	if a.Category == "" {
		a.Category = Other
	}
	if a.Time == "" {
		a.Time = DefaultActivityTime
	}
	a = a.WithCost(sanitize(a.PrimaryCost()), sanitize(a.ArrivalCostTWD))
	if a.Category != Food {
		a.MealType = ""
	}
	if a.Category != Transport {
		a.TransportType = ""
	}
	if a.Category != Sightseeing {
		a.ArrivalTransport = ""
	}
	a.LocationName = strings.TrimSpace(a.LocationName)
	if a.GoogleMapsURL == "" {
		a.GoogleMapsURL = MapsSearchURL(a.LocationName, region)
	}
	return a
}

// MapsSearchURL builds a Google Maps search link for a place name, optionally
// scoped to a region.
func MapsSearchURL(name, region string) string {
	q := strings.TrimSpace(name)
	if region != "" {
		q += " " + region
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(q)
}

func newID() string {
	return uuid.NewString()
}
