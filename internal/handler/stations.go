package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/evfinder/backend-go/internal/api"
	"github.com/bbernstein/evfinder/backend-go/internal/mapview"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// Locator is the part of locator.Resolver the handler needs.
type Locator interface {
	Nearest(ctx context.Context, point models.GeoPoint, limit int) (*models.LocatorResult, error)
	NearestToPostalCode(ctx context.Context, postalCode string, limit int) (*models.LocatorResult, error)
}

// StatsSource reports hit and miss counters of a cache.
type StatsSource interface {
	GetCacheStats() map[string]uint64
}

type StationsHandler struct {
	locator       Locator
	defaultOrigin models.GeoPoint
	stats         map[string]StatsSource
}

type Option func(*StationsHandler)

// WithCacheStats adds the counters of a cache to every lookup log line.
func WithCacheStats(name string, source StatsSource) Option {
	return func(h *StationsHandler) {
		h.stats[name] = source
	}
}

func NewStationsHandler(locator Locator, defaultOrigin models.GeoPoint, opts ...Option) *StationsHandler {
	h := &StationsHandler{
		locator:       locator,
		defaultOrigin: defaultOrigin,
		stats:         map[string]StatsSource{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters
	if params == nil {
		params = map[string]string{}
	}

	// Focus on a single station picked from the list
	focus, hasFocus, err := api.ParseCoordinates(params, "focusLat", "focusLon")
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}
	if hasFocus {
		openPopup, _ := strconv.ParseBool(params["popup"])
		return api.Success(api.NewFocusResponse(mapview.FocusPlan(mapview.FocusRequest{
			Point:     focus,
			Title:     params["title"],
			OpenPopup: openPopup,
		})))
	}

	limit := api.ParseLimit(params)

	var result *models.LocatorResult
	if zip, ok := params["zip"]; ok {
		result, err = h.locator.NearestToPostalCode(ctx, zip, limit)
	} else {
		point, hasPoint, parseErr := api.ParseCoordinates(params, "lat", "lon")
		if parseErr != nil {
			return api.Error(parseErr.Error(), http.StatusBadRequest)
		}
		if !hasPoint {
			point = h.defaultOrigin
		}
		result, err = h.locator.Nearest(ctx, point, limit)
	}
	if err != nil {
		log.Error().Err(err).Msg("Station lookup failed")
		return api.FromError(err)
	}

	event := log.Info().
		Str("status", string(result.Status)).
		Int("station_count", len(result.Stations))
	for name, source := range h.stats {
		event = event.Interface(name, source.GetCacheStats())
	}
	event.Msg("Station lookup completed")

	return api.Success(api.NewStationsResponse(result))
}
