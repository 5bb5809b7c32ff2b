package trip

import "math"

// Breakdown is the whole-trip cost split into the five budget categories,
// every figure in TWD.
type Breakdown struct {
	Flights     float64 `json:"flights"`
	Transfers   float64 `json:"transfers"`
	Transport   float64 `json:"transport"`
	Food        float64 `json:"food"`
	Sightseeing float64 `json:"sightseeing"`
	Total       float64 `json:"total"`

	// RateValid is false when the exchange rate cannot convert MYR amounts;
	// MYR-denominated items then contribute nothing.
	RateValid bool `json:"rateValid"`
}

// ActivityCost sums every cost field of a, whatever its category.
func ActivityCost(a Activity) float64 {
	return sanitize(a.TransportCostTWD) + sanitize(a.MealCostTWD) +
		sanitize(a.TicketCostTWD) + sanitize(a.ArrivalCostTWD)
}

// DayCost sums ActivityCost over the day's activities.
func DayCost(d DayPlan) float64 {
	var total float64
	for _, a := range d.Activities {
		total += ActivityCost(a)
	}
	return total
}

// TripBreakdown derives the budget from canonical values on every call;
// nothing is cached, so a new exchange rate takes effect immediately.
func TripBreakdown(s State) Breakdown {
	b := Breakdown{RateValid: ValidRate(s.ExchangeRate)}

	b.Flights = MYRToTWD(sanitize(s.PreDeparture.FlightCostMYR)+sanitize(s.PreDeparture.ReturnFlightCostMYR), s.ExchangeRate)

	for _, t := range s.PreDeparture.Transfers {
		if t.Currency == MYR {
			b.Transfers += MYRToTWD(t.Cost, s.ExchangeRate)
		} else {
			b.Transfers += sanitize(t.Cost)
		}
	}

	for _, d := range s.Itinerary {
		for _, a := range d.Activities {
			// Getting to a sightseeing spot is a transport expense.
			b.Transport += sanitize(a.TransportCostTWD) + sanitize(a.ArrivalCostTWD)
			b.Food += sanitize(a.MealCostTWD)
			b.Sightseeing += sanitize(a.TicketCostTWD)
		}
	}

	b.Total = b.Flights + b.Transfers + b.Transport + b.Food + b.Sightseeing
	return b
}

// RemainingMYR is what is left of the MYR budget limit after total. ok is
// false when the rate cannot express the total in MYR.
func RemainingMYR(limitMYR, totalTWD, rate float64) (float64, bool) {
	spent, ok := FormatForDisplay(totalTWD, MYR, rate)
	if !ok {
		return 0, false
	}
	return sanitize(limitMYR) - spent, true
}

// ValidRate reports whether rate can be used to convert between currencies.
func ValidRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// MYRToTWD converts a MYR amount into TWD, or returns 0 when rate is unusable.
func MYRToTWD(amountMYR, rate float64) float64 {
	if !ValidRate(rate) {
		return 0
	}
	return sanitize(amountMYR) / rate
}

// FormatForDisplay converts a canonical TWD amount into the display
// currency. ok is false when MYR is requested with an unusable rate.
func FormatForDisplay(amountTWD float64, c Currency, rate float64) (float64, bool) {
	if c != MYR {
		return amountTWD, true
	}
	if !ValidRate(rate) {
		return 0, false
	}
	return amountTWD * rate, true
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
