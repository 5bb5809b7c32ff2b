package trip

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// Range is the fixed, inclusive span of calendar days the trip covers.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses an ISO calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, ErrValidation)
	}
	return t, nil
}

// TimeLayout is the zero-padded 24-hour clock format of activity times.
const TimeLayout = "15:04"

// CheckTime accepts only zero-padded HH:MM times, so stored times sort
// lexically in clock order.
func CheckTime(s string) error {
	if len(s) != len(TimeLayout) {
		return fmt.Errorf("parse time %q: %w", s, ErrValidation)
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return fmt.Errorf("parse time %q: %w", s, ErrValidation)
	}
	return nil
}

// NewRange builds a Range from two ISO dates. start must not be after end.
func NewRange(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Range{}, err
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("trip ends %s before it starts %s: %w", end, start, ErrValidation)
	}
	return Range{Start: s, End: e}, nil
}

// MustRange is NewRange for compile-time constants and tests.
func MustRange(start, end string) Range {
	r, err := NewRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// Days is the number of calendar days in the range, both ends included.
func (r Range) Days() int {
	return daysBetween(r.Start, r.End) + 1
}

// Contains reports whether the ISO date lies inside the range.
func (r Range) Contains(date string) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

// DayNumber is the 1-based offset of date from the start of the trip.
func (r Range) DayNumber(d time.Time) int {
	return daysBetween(r.Start, d) + 1
}

// Dates returns the first n ISO dates of the trip, or every date when n <= 0
// or n exceeds the trip length.
func (r Range) Dates(n int) []string {
	total := r.Days()
	if n <= 0 || n > total {
		n = total
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.Start.AddDate(0, 0, i).Format(DateLayout))
	}
	return out
}

// DaysUntil returns the whole days left before the trip starts, rounded up
// and clamped at zero once the trip is under way. The start is midnight in
// now's location.
func (r Range) DaysUntil(now time.Time) int {
	y, m, d := r.Start.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	diff := start.Sub(now)
	if diff <= 0 {
		return 0
	}
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// GenerateDays produces one empty DayPlan per calendar day in the range,
// numbered 1..N in date order.
func GenerateDays(r Range) Itinerary {
	days := make(Itinerary, 0, r.Days())
	for d, n := r.Start, 1; !d.After(r.End); d, n = d.AddDate(0, 0, 1), n+1 {
		days = append(days, DayPlan{
			Date:       d.Format(DateLayout),
			DayNumber:  n,
			Activities: []Activity{},
		})
	}
	return days
}

func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
