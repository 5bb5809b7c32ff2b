package trip

import (
	"fmt"
	"sort"
)

// Itinerary is the day plan store: every DayPlan of the trip, kept sorted by
// date with unique dates.
type Itinerary []DayPlan

// ByDate returns the index of the day with the given date, or -1.
func (it Itinerary) ByDate(date string) int {
	for i := range it {
		if it[i].Date == date {
			return i
		}
	}
	return -1
}

// ByIndex returns the day at position i of the sorted sequence.
func (it Itinerary) ByIndex(i int) (DayPlan, bool) {
	if i < 0 || i >= len(it) {
		return DayPlan{}, false
	}
	return it[i], true
}

// Upsert returns the index of the day for date, creating it when it does not
// exist yet. New days must fall inside r; their day number is the offset from
// r.Start plus one.
func (it *Itinerary) Upsert(date string, r Range) (int, error) {
	if i := it.ByDate(date); i >= 0 {
		return i, nil
	}
	d, err := ParseDate(date)
	if err != nil {
		return -1, err
	}
	if !r.Contains(date) {
		return -1, fmt.Errorf("date %s is outside %s..%s: %w",
			date, r.Start.Format(DateLayout), r.End.Format(DateLayout), ErrValidation)
	}
	*it = append(*it, DayPlan{
		Date:       date,
		DayNumber:  r.DayNumber(d),
		Activities: []Activity{},
	})
	it.sortDays()
	return it.ByDate(date), nil
}

// UpdateSummary sets the daily reflection of the day with the given date.
func (it Itinerary) UpdateSummary(date, text string) bool {
	i := it.ByDate(date)
	if i < 0 {
		return false
	}
	it[i].DailySummary = text
	return true
}

// SightseeingDay groups the sightseeing activities planned on one date.
type SightseeingDay struct {
	Date       string
	Activities []Activity
}

// SightseeingLog lists the sightseeing stops of every day that has any.
func (it Itinerary) SightseeingLog() []SightseeingDay {
	var out []SightseeingDay
	for _, d := range it {
		var spots []Activity
		for _, a := range d.Activities {
			if a.Category == Sightseeing {
				spots = append(spots, a)
			}
		}
		if len(spots) > 0 {
			out = append(out, SightseeingDay{Date: d.Date, Activities: spots})
		}
	}
	return out
}

// ISO dates sort chronologically as strings.
func (it Itinerary) sortDays() {
	sort.SliceStable(it, func(i, j int) bool { return it[i].Date < it[j].Date })
}

func (it Itinerary) clone() Itinerary {
	out := make(Itinerary, len(it))
	for i, d := range it {
		out[i] = d
		out[i].Activities = append([]Activity{}, d.Activities...)
	}
	return out
}
