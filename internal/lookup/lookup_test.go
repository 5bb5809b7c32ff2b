package lookup_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/voyage/internal/lookup"
	"github.com/sadopc/voyage/internal/trip"
)

// fakeGenerator is a hand-written Generator. GenerateFn controls the answer
// and Requests records what was asked.
type fakeGenerator struct {
	GenerateFn func(ctx context.Context, req lookup.Request) (lookup.Response, error)
	Requests   []lookup.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req lookup.Request) (lookup.Response, error) {
	f.Requests = append(f.Requests, req)
	return f.GenerateFn(ctx, req)
}

var _ lookup.Generator = (*fakeGenerator)(nil)

func answer(text string, links ...lookup.Link) *fakeGenerator {
	return &fakeGenerator{GenerateFn: func(context.Context, lookup.Request) (lookup.Response, error) {
		return lookup.Response{Text: text, Links: links}, nil
	}}
}

func failing(err error) *fakeGenerator {
	return &fakeGenerator{GenerateFn: func(context.Context, lookup.Request) (lookup.Response, error) {
		return lookup.Response{}, err
	}}
}

func newClient(gen lookup.Generator) *lookup.Client {
	return lookup.New(gen, lookup.Options{Location: "Taipei, Taiwan", Region: "Taiwan"})
}

// ---- SearchPlace ----------------------------------------------------------

func TestSearchPlace_OfflineDegrades(t *testing.T) {
	c := newClient(nil)

	p := c.SearchPlace(context.Background(), "Din Tai Fung")

	assert.False(t, c.Online())
	assert.Equal(t, "Din Tai Fung", p.Name)
	assert.Empty(t, p.Address)
	assert.NotEmpty(t, p.MapURL)
	assert.Contains(t, p.MapURL, "Din+Tai+Fung")
	assert.Equal(t, "Could not fetch details.", p.Description.EN)
	assert.NotNil(t, p.FunThings.EN)
}

func TestSearchPlace_FailureDegrades(t *testing.T) {
	c := newClient(failing(errors.New("network unreachable")))

	p := c.SearchPlace(context.Background(), "Jiufen")

	assert.Equal(t, lookup.Degraded("Jiufen"), p)
}

func TestSearchPlace_ParsesFencedJSON(t *testing.T) {
	gen := answer("```json\n"+`{
		"name": "Taipei 101",
		"address": "No. 7, Section 5, Xinyi Rd, Xinyi District, Taipei",
		"description": {"en": "Landmark skyscraper.", "zh": "地標摩天大樓。"},
		"funThings": {"en": ["Observatory", "Mall"], "zh": ["觀景台", "購物中心"]}
	}`+"\n```",
		lookup.Link{URI: "https://example.com/article", Title: "Article"},
		lookup.Link{URI: "https://www.google.com/maps/place/Taipei+101", Title: "Taipei 101"},
	)
	c := newClient(gen)

	p := c.SearchPlace(context.Background(), "  taipei 101 ")

	assert.Equal(t, "Taipei 101", p.Name)
	assert.Equal(t, "No. 7, Section 5, Xinyi Rd, Xinyi District, Taipei", p.Address)
	assert.Equal(t, "https://www.google.com/maps/place/Taipei+101", p.MapURL)
	assert.Equal(t, "地標摩天大樓。", p.Description.ZH)
	assert.Equal(t, []string{"Observatory", "Mall"}, p.FunThings.EN)

	require.Len(t, gen.Requests, 1)
	assert.True(t, gen.Requests[0].Grounding)
	assert.Contains(t, gen.Requests[0].Prompt, `"taipei 101"`)
	assert.Contains(t, gen.Requests[0].System, "Taiwan")
}

func TestSearchPlace_SynthesizesMapURLWithoutMapsLink(t *testing.T) {
	c := newClient(answer(`{"name":"Raohe Night Market","address":"Raohe St"}`))

	p := c.SearchPlace(context.Background(), "Raohe")

	assert.Equal(t, trip.MapsSearchURL("Raohe", "Taiwan"), p.MapURL)
	assert.Equal(t, "No description available.", p.Description.EN)
	assert.Equal(t, p.Description.EN, p.Description.ZH)
	assert.Empty(t, p.FunThings.ZH)
}

func TestSearchPlace_ProseBecomesDescription(t *testing.T) {
	c := newClient(answer("Elephant Mountain is a short hike with views of Taipei 101."))

	p := c.SearchPlace(context.Background(), "Elephant Mountain")

	assert.Equal(t, "Elephant Mountain", p.Name)
	assert.Empty(t, p.Address)
	assert.Equal(t, "Elephant Mountain is a short hike with views of Taipei 101.", p.Description.EN)
	assert.NotEmpty(t, p.MapURL)
}

func TestSearchPlace_AppliesTimeout(t *testing.T) {
	gen := &fakeGenerator{GenerateFn: func(ctx context.Context, _ lookup.Request) (lookup.Response, error) {
		_, ok := ctx.Deadline()
		if !ok {
			return lookup.Response{}, errors.New("no deadline")
		}
		<-ctx.Done()
		return lookup.Response{}, ctx.Err()
	}}
	c := lookup.New(gen, lookup.Options{Region: "Taiwan", Timeout: 10 * time.Millisecond})

	start := time.Now()
	p := c.SearchPlace(context.Background(), "Beitou")

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, lookup.Degraded("Beitou"), p)
}

func TestPlaceDetails(t *testing.T) {
	p := lookup.Place{Name: "Longshan Temple", Address: "Wanhua", MapURL: "https://maps.google.com/?cid=1",
		Description: lookup.Localized{EN: "Historic temple."}}

	d := p.Details()

	assert.Equal(t, trip.PlaceDetails{Name: "Longshan Temple", Address: "Wanhua", MapURL: "https://maps.google.com/?cid=1", Notes: "Historic temple."}, d)
}

// ---- Weather --------------------------------------------------------------

func TestWeather_ParsesFencedArray(t *testing.T) {
	gen := answer("Here you go:\n```json\n" + `[
		{"date":"Dec 15","dayName":"Monday","condition":"Cloudy","temp":"16-20°C","rainChance":"40%","advice":"Light jacket"},
		{"date":"Dec 16","dayName":"Tuesday","condition":"Rainy","temp":"15-18°C","rainChance":"80%","advice":"Bring umbrella"}
	]` + "\n```")
	c := newClient(gen)
	dates := []string{"2025-12-15", "2025-12-16"}

	cards := c.Weather(context.Background(), dates)

	require.Len(t, cards, 2)
	assert.Equal(t, "Rainy", cards[1].Condition)
	assert.Equal(t, "80%", cards[1].RainChance)
	require.Len(t, gen.Requests, 1)
	assert.Contains(t, gen.Requests[0].Prompt, "2025-12-15, 2025-12-16")
	assert.Contains(t, gen.Requests[0].Prompt, "Taipei, Taiwan")
	assert.False(t, strings.Contains(gen.Requests[0].Prompt, "%!"))
}

func TestWeather_FailuresAreEmpty(t *testing.T) {
	tests := []struct {
		name string
		gen  lookup.Generator
	}{
		{"offline", nil},
		{"error", failing(errors.New("quota exceeded"))},
		{"malformed", answer("[{not json")},
		{"prose", answer("Sorry, I cannot help with that.")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := newClient(tt.gen).Weather(context.Background(), []string{"2025-12-15"})

			assert.NotNil(t, cards)
			assert.Empty(t, cards)
		})
	}
}

func TestWeather_NoDatesSkipsLookup(t *testing.T) {
	gen := answer("[]")

	cards := newClient(gen).Weather(context.Background(), nil)

	assert.Empty(t, cards)
	assert.Empty(t, gen.Requests)
}
