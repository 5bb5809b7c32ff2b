package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/trip"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewItinerary
	viewEssentials
	viewSettings
)

var viewNames = []string{"Voyage", "Itinerary", "Essentials", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// placeFoundMsg carries a finished wishlist lookup back to the update loop.
type placeFoundMsg struct {
	id    string
	place lookup.Place
}

// activityPlaceMsg carries a finished lookup for an itinerary activity.
type activityPlaceMsg struct {
	date  string
	id    string
	place lookup.Place
}

type weatherMsg struct {
	cards []trip.WeatherCard
}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// failed reports err on the status line, or does nothing when err is nil.
func failed(action string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
	}
}

// clamp keeps i within [0, n-1], or 0 when n is 0.
func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// --- Form validators ---

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func optionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := trip.ParseDate(s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func requireDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("date is required")
	}
	return optionalDate(s)
}
