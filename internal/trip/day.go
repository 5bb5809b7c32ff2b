package trip

import (
	"fmt"
	"sort"
	"strings"
)

// DayPlan is one calendar date's ordered activities plus a free-text
// reflection. DayNumber is assigned once when the day is created and is never
// renumbered afterwards.
type DayPlan struct {
	Date         string     `json:"date"`
	DayNumber    int        `json:"dayNumber"`
	Activities   []Activity `json:"activities"`
	DailySummary string     `json:"dailySummary"`
}

// AddActivity validates, normalizes and inserts a, keeping the day sorted by
// time. The stored copy (with its id) is returned.
func (d *DayPlan) AddActivity(a Activity, region string) (Activity, error) {
	if strings.TrimSpace(a.LocationName) == "" {
		return Activity{}, fmt.Errorf("add activity on %s: location name is required: %w", d.Date, ErrValidation)
	}
	if err := checkActivityTime(a.Time); err != nil {
		return Activity{}, fmt.Errorf("add activity on %s: %w", d.Date, err)
	}
	if a.ID == "" {
		a.ID = newID()
	}
	a = a.normalize(region)
	d.Activities = append(d.Activities, a)
	d.sortActivities()
	return a, nil
}

// UpdateActivity replaces the activity with the given id. It reports false,
// leaving the day untouched, when no activity has that id.
func (d *DayPlan) UpdateActivity(id string, a Activity, region string) (bool, error) {
	if strings.TrimSpace(a.LocationName) == "" {
		return false, fmt.Errorf("update activity %s: location name is required: %w", id, ErrValidation)
	}
	if err := checkActivityTime(a.Time); err != nil {
		return false, fmt.Errorf("update activity %s: %w", id, err)
	}
	i := d.indexOf(id)
	if i < 0 {
		return false, nil
	}
	a.ID = id
	d.Activities[i] = a.normalize(region)
	d.sortActivities()
	return true, nil
}

// RemoveActivity deletes the activity with the given id, reporting whether
// one was found.
func (d *DayPlan) RemoveActivity(id string) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.Activities = append(d.Activities[:i], d.Activities[i+1:]...)
	return true
}

// Activity returns the activity with the given id.
func (d DayPlan) Activity(id string) (Activity, bool) {
	if i := d.indexOf(id); i >= 0 {
		return d.Activities[i], true
	}
	return Activity{}, false
}

// checkActivityTime allows an empty time, which normalize defaults.
func checkActivityTime(s string) error {
	if s == "" {
		return nil
	}
	return CheckTime(s)
}

func (d DayPlan) indexOf(id string) int {
	for i := range d.Activities {
		if d.Activities[i].ID == id {
			return i
		}
	}
	return -1
}

// sortActivities orders by HH:MM; equal times keep their insertion order.
func (d *DayPlan) sortActivities() {
	sort.SliceStable(d.Activities, func(i, j int) bool {
		return d.Activities[i].Time < d.Activities[j].Time
	})
}
