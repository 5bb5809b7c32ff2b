// Package lookup answers free-text place searches and weather questions with
// a generative model. Every lookup is best effort: failures come back as a
// degraded but usable value, never as an error.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sadopc/voyage/internal/trip"
)

// Request is one prompt sent to a Generator.
type Request struct {
	Prompt    string
	System    string
	Grounding bool // answer with web search grounding
}

// Link is a source the model cited for its answer.
type Link struct {
	URI   string
	Title string
}

// Response is the model's text answer and the links it was grounded on.
type Response struct {
	Text  string
	Links []Link
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Localized is a text in English and Traditional Chinese.
type Localized struct {
	EN string `json:"en"`
	ZH string `json:"zh"`
}

// LocalizedList is a list of short texts in English and Traditional Chinese.
type LocalizedList struct {
	EN []string `json:"en"`
	ZH []string `json:"zh"`
}

// Place is the result of a place search.
type Place struct {
	Name        string        `json:"name"`
	Address     string        `json:"address"`
	MapURL      string        `json:"mapUrl"`
	Description Localized     `json:"description"`
	FunThings   LocalizedList `json:"funThings"`
}

// Details is the part of p that is merged into a wishlist item.
func (p Place) Details() trip.PlaceDetails {
	return trip.PlaceDetails{
		Name:    p.Name,
		Address: p.Address,
		MapURL:  p.MapURL,
		Notes:   p.Description.EN,
	}
}

const unavailable = "Could not fetch details."

// Degraded is the placeholder returned when a place cannot be looked up.
func Degraded(query string) Place {
	return Place{
		Name:        query,
		MapURL:      trip.MapsSearchURL(query, ""),
		Description: Localized{EN: unavailable, ZH: unavailable},
		FunThings:   LocalizedList{EN: []string{}, ZH: []string{}},
	}
}

// Options configure a Client.
type Options struct {
	Location string        // e.g. "Taipei, Taiwan"
	Region   string        // e.g. "Taiwan"
	Timeout  time.Duration // per lookup; zero means no limit
	Logger   *slog.Logger
}

// Client runs place and weather lookups. A Client without a Generator is
// offline and answers every lookup with its degraded value.
type Client struct {
	gen  Generator
	opts Options
	log  *slog.Logger
}

// New returns a client. gen may be nil.
func New(gen Generator, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{gen: gen, opts: opts, log: log}
}

// Online reports whether lookups can reach a model.
func (c *Client) Online() bool { return c != nil && c.gen != nil }

func (c *Client) generate(ctx context.Context, req Request) (Response, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	return c.gen.Generate(ctx, req)
}

const placeSystem = "You are a travel assistant. Always try to find the specific location in %s."

const placePrompt = `Find information about %q in %s.
Reply with only a JSON object with these keys:
- name: the official name
- address: the full street address
- description: {"en": short description in English, "zh": the same in Traditional Chinese}
- funThings: {"en": up to 3 short things to do there, "zh": the same in Traditional Chinese}
Do not wrap the JSON in markdown.`

// SearchPlace looks a place up by free text.
func (c *Client) SearchPlace(ctx context.Context, query string) Place {
	query = strings.TrimSpace(query)
	if !c.Online() {
		return Degraded(query)
	}

	resp, err := c.generate(ctx, Request{
		Prompt:    fmt.Sprintf(placePrompt, query, c.opts.Region),
		System:    fmt.Sprintf(placeSystem, c.opts.Region),
		Grounding: true,
	})
	if err != nil {
		c.log.Warn("place lookup failed", "query", query, "error", err)
		return Degraded(query)
	}

	p := Place{Name: query}
	if err := decodeJSON(resp.Text, '{', '}', &p); err != nil {
		c.log.Warn("place lookup returned prose", "query", query, "error", err)
		p = Place{Name: query, Description: Localized{EN: strings.TrimSpace(resp.Text)}}
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = query
	}
	if p.Description.EN == "" {
		p.Description.EN = "No description available."
	}
	if p.Description.ZH == "" {
		p.Description.ZH = p.Description.EN
	}
	if p.FunThings.EN == nil {
		p.FunThings.EN = []string{}
	}
	if p.FunThings.ZH == nil {
		p.FunThings.ZH = []string{}
	}
	p.MapURL = mapsLink(resp.Links)
	if p.MapURL == "" {
		p.MapURL = trip.MapsSearchURL(query, c.opts.Region)
	}
	return p
}

func mapsLink(links []Link) string {
	for _, l := range links {
		if strings.Contains(l.URI, "google.com/maps") || strings.Contains(l.URI, "maps.google.com") {
			return l.URI
		}
	}
	return ""
}

const weatherPrompt = `Search for the weather forecast (or the historical average if the dates are too far out) for %s on these dates: %s.
Prefer data from the national weather service.

Return a JSON array where each object has these exact keys:
- date: string (e.g. "Dec 15")
- dayName: string (e.g. "Monday")
- condition: string (short summary like "Cloudy", "Rainy")
- temp: string (e.g. "18-22°C")
- rainChance: string (e.g. "30%%")
- advice: string (short clothing advice, e.g. "Bring umbrella")

Do not include markdown formatting. Just the raw JSON array.`

// Weather asks for a forecast for each date. It returns an empty slice when
// no forecast is available.
func (c *Client) Weather(ctx context.Context, dates []string) []trip.WeatherCard {
	if !c.Online() || len(dates) == 0 {
		return []trip.WeatherCard{}
	}

	resp, err := c.generate(ctx, Request{
		Prompt:    fmt.Sprintf(weatherPrompt, c.opts.Location, strings.Join(dates, ", ")),
		Grounding: true,
	})
	if err != nil {
		c.log.Warn("weather lookup failed", "dates", dates, "error", err)
		return []trip.WeatherCard{}
	}

	var cards []trip.WeatherCard
	if err := decodeJSON(resp.Text, '[', ']', &cards); err != nil {
		c.log.Warn("weather lookup returned unusable data", "error", err)
		return []trip.WeatherCard{}
	}
	if cards == nil {
		return []trip.WeatherCard{}
	}
	return cards
}

// decodeJSON unmarshals the JSON value in text delimited by first and last,
// ignoring markdown fences and any prose around it.
func decodeJSON(text string, first, last byte, v any) error {
	s := stripFences(text)
	i := strings.IndexByte(s, first)
	j := strings.LastIndexByte(s, last)
	if i < 0 || j < i {
		return fmt.Errorf("no JSON %c...%c in response", first, last)
	}
	if err := json.Unmarshal([]byte(s[i:j+1]), v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
