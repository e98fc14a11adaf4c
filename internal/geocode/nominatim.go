// Package geocode resolves free-text queries to coordinates through the
// OpenStreetMap Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bbernstein/evfinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
// Sample request: https://nominatim.openstreetmap.org/search?format=json&countrycodes=ch&q=8400&limit=1
const searchPath = "/search"

// Match is a single search hit.
type Match struct {
	Lat         Coordinate `json:"lat"`
	Lon         Coordinate `json:"lon"`
	DisplayName string     `json:"display_name"`
}

// Coordinate holds the textual form of a coordinate. Nominatim sends strings,
// other values are kept verbatim so the caller can reject them.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Coordinate(s)
		return nil
	}
	*c = Coordinate(strings.TrimSpace(string(b)))
	return nil
}

// Geocoder looks up a query restricted to one country.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]Match, error)
}

type NominatimClient struct {
	httpClient  client.Interface
	countryCode string
	limiter     *rate.Limiter
}

// NewNominatimClient builds a client that issues at most ratePerSecond requests.
// The public Nominatim instance allows one request per second.
func NewNominatimClient(httpClient client.Interface, countryCode string, ratePerSecond float64) *NominatimClient {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &NominatimClient{
		httpClient:  httpClient,
		countryCode: countryCode,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}
}

func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, NewGeocodingFailedError(0, fmt.Errorf("waiting for rate limiter: %w", err))
	}

	params := url.Values{}
	params.Set("format", "json")
	if c.countryCode != "" {
		params.Set("countrycodes", c.countryCode)
	}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	log.Debug().Str("query", query).Str("country", c.countryCode).Msg("Geocoding query")

	resp, err := c.httpClient.Get(ctx, searchPath+"?"+params.Encode())
	if err != nil {
		return nil, NewGeocodingFailedError(0, fmt.Errorf("fetching search results: %w", err))
	}
	if !resp.IsSuccess() {
		return nil, NewGeocodingFailedError(resp.StatusCode, nil)
	}

	var raw any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, NewGeocodingFailedError(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	if _, ok := raw.([]any); !ok {
		log.Warn().Str("query", query).Msg("Geocoder returned a non-array payload, treating as no match")
		return []Match{}, nil
	}

	var matches []Match
	if err := json.Unmarshal(resp.Body, &matches); err != nil {
		return nil, NewGeocodingFailedError(resp.StatusCode, fmt.Errorf("decoding matches: %w", err))
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, nil
}
