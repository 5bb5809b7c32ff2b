package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/voyage/internal/trip"
)

type jsonBudget struct {
	ExportedAt      string        `json:"exported_at"`
	DisplayCurrency trip.Currency `json:"display_currency"`
	ExchangeRate    float64       `json:"exchange_rate"`
	BudgetLimitMYR  float64       `json:"budget_limit_myr"`
	RemainingMYR    *float64      `json:"remaining_myr,omitempty"`
	TotalTWD        float64       `json:"total_twd"`
	TotalMYR        *float64      `json:"total_myr,omitempty"`
	Categories      jsonBreakdown `json:"categories_twd"`
	Days            []jsonDay     `json:"days"`
}

type jsonBreakdown struct {
	Flights     float64 `json:"flights"`
	Transfers   float64 `json:"transfers"`
	Transport   float64 `json:"transport"`
	Food        float64 `json:"food"`
	Sightseeing float64 `json:"sightseeing"`
}

type jsonDay struct {
	Date       string  `json:"date"`
	DayNumber  int     `json:"day_number"`
	Activities int     `json:"activities"`
	CostTWD    float64 `json:"cost_twd"`
	Summary    string  `json:"summary,omitempty"`
}

// ToJSON writes the budget breakdown of s with a per-day cost list.
func ToJSON(s trip.State, path string) error {
	b := trip.TripBreakdown(s)
	export := jsonBudget{
		ExportedAt:      time.Now().UTC().Format(time.RFC3339),
		DisplayCurrency: s.DisplayCurrency,
		ExchangeRate:    s.ExchangeRate,
		BudgetLimitMYR:  s.BudgetLimitMYR,
		TotalTWD:        b.Total,
		Categories: jsonBreakdown{
			Flights:     b.Flights,
			Transfers:   b.Transfers,
			Transport:   b.Transport,
			Food:        b.Food,
			Sightseeing: b.Sightseeing,
		},
		Days: []jsonDay{},
	}
	if total, ok := trip.FormatForDisplay(b.Total, trip.MYR, s.ExchangeRate); ok {
		export.TotalMYR = &total
	}
	if left, ok := trip.RemainingMYR(s.BudgetLimitMYR, b.Total, s.ExchangeRate); ok {
		export.RemainingMYR = &left
	}

	for _, d := range s.Itinerary {
		export.Days = append(export.Days, jsonDay{
			Date:       d.Date,
			DayNumber:  d.DayNumber,
			Activities: len(d.Activities),
			CostTWD:    trip.DayCost(d),
			Summary:    d.DailySummary,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
