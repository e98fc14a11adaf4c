package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/evfinder/backend-go/internal/api"
	"github.com/bbernstein/evfinder/backend-go/internal/cache"
	"github.com/bbernstein/evfinder/backend-go/internal/locator"
	"github.com/bbernstein/evfinder/backend-go/internal/mapview"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLocator struct {
	nearestFn    func(ctx context.Context, point models.GeoPoint, limit int) (*models.LocatorResult, error)
	postalCodeFn func(ctx context.Context, postalCode string, limit int) (*models.LocatorResult, error)
	nearestCalls int
	postalCalls  int
	lastPoint    models.GeoPoint
	lastLimit    int
	lastPostCode string
}

func (m *mockLocator) Nearest(ctx context.Context, point models.GeoPoint, limit int) (*models.LocatorResult, error) {
	m.nearestCalls++
	m.lastPoint = point
	m.lastLimit = limit
	if m.nearestFn != nil {
		return m.nearestFn(ctx, point, limit)
	}
	return models.NewLocatorResult(point, nil), nil
}

func (m *mockLocator) NearestToPostalCode(ctx context.Context, postalCode string, limit int) (*models.LocatorResult, error) {
	m.postalCalls++
	m.lastPostCode = postalCode
	m.lastLimit = limit
	if m.postalCodeFn != nil {
		return m.postalCodeFn(ctx, postalCode, limit)
	}
	return &models.LocatorResult{Status: models.LookupPostalCodeNotFound, Stations: []models.RankedStation{}}, nil
}

var defaultOrigin = models.GeoPoint{Latitude: 47.4988, Longitude: 8.7237}

func TestHandleRequest_Coordinates(t *testing.T) {
	loc := &mockLocator{
		nearestFn: func(ctx context.Context, point models.GeoPoint, limit int) (*models.LocatorResult, error) {
			return models.NewLocatorResult(point, []models.RankedStation{
				{Station: models.Station{Title: "Bahnhof", Address: "Bahnhofplatz 1, 8001 Zürich", Latitude: 47.378, Longitude: 8.540}, DistanceKm: 0.2},
			}), nil
		},
	}
	h := NewStationsHandler(loc, defaultOrigin)

	resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"lat": "47.3769", "lon": "8.5417", "limit": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.GeoPoint{Latitude: 47.3769, Longitude: 8.5417}, loc.lastPoint)
	assert.Equal(t, 3, loc.lastLimit)

	var body api.StationsResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "stations", body.ResponseType)
	assert.Equal(t, models.LookupFound, body.Status)
	require.Len(t, body.Stations, 1)
	assert.Equal(t, "Bahnhof", body.Stations[0].Title)
	require.NotNil(t, body.Map)
	assert.Len(t, body.Map.Markers, 2)
}

func TestHandleRequest_DefaultOrigin(t *testing.T) {
	loc := &mockLocator{}
	h := NewStationsHandler(loc, defaultOrigin)

	resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, defaultOrigin, loc.lastPoint)
	assert.Equal(t, 0, loc.lastLimit)

	var body api.StationsResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, models.LookupNoStations, body.Status)
	assert.Empty(t, body.Stations)
}

func TestHandleRequest_PostalCode(t *testing.T) {
	loc := &mockLocator{}
	h := NewStationsHandler(loc, defaultOrigin)

	resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"zip": "9999", "lat": "1", "lon": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, loc.postalCalls)
	assert.Equal(t, 0, loc.nearestCalls)
	assert.Equal(t, "9999", loc.lastPostCode)

	var body api.StationsResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, models.LookupPostalCodeNotFound, body.Status)
	assert.Nil(t, body.Origin)
	assert.Nil(t, body.Map)
}

func TestHandleRequest_Errors(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]string
		locator    *mockLocator
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid latitude",
			params:     map[string]string{"lat": "north", "lon": "8.5"},
			locator:    &mockLocator{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid coordinates",
		},
		{
			name:       "invalid focus",
			params:     map[string]string{"focusLat": "47.3"},
			locator:    &mockLocator{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid coordinates",
		},
		{
			name:   "invalid postal code",
			params: map[string]string{"zip": "12"},
			locator: &mockLocator{
				postalCodeFn: func(ctx context.Context, postalCode string, limit int) (*models.LocatorResult, error) {
					return nil, locator.NewInvalidPostalCodeError(postalCode)
				},
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Please enter a valid 4-digit postal code",
		},
		{
			name:   "dataset unavailable",
			params: map[string]string{"lat": "47.3", "lon": "8.5"},
			locator: &mockLocator{
				nearestFn: func(ctx context.Context, point models.GeoPoint, limit int) (*models.LocatorResult, error) {
					return nil, cache.NewDatasetStatusError(http.StatusBadGateway, []byte("upstream"))
				},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Charging station dataset unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStationsHandler(tt.locator, defaultOrigin)
			resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
				QueryStringParameters: tt.params,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body api.ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
			assert.Equal(t, "error", body.ResponseType)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestHandleRequest_Focus(t *testing.T) {
	loc := &mockLocator{}
	h := NewStationsHandler(loc, defaultOrigin)

	resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{
			"focusLat": "47.378",
			"focusLon": "8.540",
			"title":    "Bahnhof",
			"popup":    "true",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, loc.nearestCalls+loc.postalCalls)

	var body api.FocusResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "focus", body.ResponseType)
	require.NotNil(t, body.Map.Center)
	assert.Equal(t, models.GeoPoint{Latitude: 47.378, Longitude: 8.540}, *body.Map.Center)
	assert.Equal(t, mapview.FocusZoom, body.Map.Zoom)
	require.Len(t, body.Map.Markers, 1)
	assert.Equal(t, "Bahnhof", body.Map.Markers[0].Title)
	assert.True(t, body.Map.Markers[0].OpenPopup)
}

type mockStatsSource struct {
	calls int
	stats map[string]uint64
}

func (m *mockStatsSource) GetCacheStats() map[string]uint64 {
	m.calls++
	return m.stats
}

func TestHandleRequest_LogsCacheStats(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = originalLogger }()

	stats := &mockStatsSource{stats: map[string]uint64{"fetches": 1, "hits": 4}}
	h := NewStationsHandler(&mockLocator{}, defaultOrigin, WithCacheStats("dataset_cache", stats))

	resp, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"lat": "47.3769", "lon": "8.5417"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats.calls)
	assert.Contains(t, buf.String(), `"dataset_cache":{"fetches":1,"hits":4}`)

	// Focus requests do not touch the caches
	_, err = h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"focusLat": "47.3", "focusLon": "8.5"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.calls)
}
