package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/voyage/internal/trip"
)

// ToCSV writes one row per activity across days, in itinerary order.
func ToCSV(days []trip.DayPlan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Day", "Time", "Category", "Location", "Address", "Detail", "Cost (TWD)", "Arrival (TWD)", "Notes", "Map"}); err != nil {
		return err
	}

	for _, d := range days {
		for _, a := range d.Activities {
			row := []string{
				d.Date,
				strconv.Itoa(d.DayNumber),
				a.Time,
				string(a.Category),
				a.LocationName,
				a.LocationAddress,
				detail(a),
				formatTWD(a.PrimaryCost()),
				formatTWD(a.ArrivalCostTWD),
				a.Notes,
				a.GoogleMapsURL,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// detail is the category-specific type of an activity.
func detail(a trip.Activity) string {
	switch a.Category {
	case trip.Food:
		return string(a.MealType)
	case trip.Transport:
		return string(a.TransportType)
	case trip.Sightseeing:
		return string(a.ArrivalTransport)
	}
	return ""
}

func formatTWD(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
