// Package locator answers "which charging stations are closest to me" for a
// coordinate or a Swiss postal code.
package locator

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bbernstein/evfinder/backend-go/internal/geocode"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

var postalCodePattern = regexp.MustCompile(`^[0-9]{4}$`)

// PointCache memoizes resolved postal codes.
type PointCache interface {
	Get(postalCode string) (models.GeoPoint, bool)
	Add(postalCode string, point models.GeoPoint)
}

type Resolver struct {
	finder   models.StationFinder
	geocoder geocode.Geocoder
	points   PointCache
}

// NewResolver wires the resolver. points may be nil to disable memoization.
func NewResolver(finder models.StationFinder, geocoder geocode.Geocoder, points PointCache) *Resolver {
	return &Resolver{
		finder:   finder,
		geocoder: geocoder,
		points:   points,
	}
}

// ValidatePostalCode trims the input and checks that it consists of exactly
// four digits.
func ValidatePostalCode(input string) (string, error) {
	code := strings.TrimSpace(input)
	if !postalCodePattern.MatchString(code) {
		return "", NewInvalidPostalCodeError(input)
	}
	return code, nil
}

// Nearest ranks the stations around a known point.
func (r *Resolver) Nearest(ctx context.Context, point models.GeoPoint, limit int) (*models.LocatorResult, error) {
	stations, err := r.finder.FindNearestStations(ctx, point, limit)
	if err != nil {
		return nil, err
	}
	return models.NewLocatorResult(point, stations), nil
}

// NearestToPostalCode resolves a postal code and ranks the stations around
// it. An unknown postal code is a successful result with status
// LookupPostalCodeNotFound.
func (r *Resolver) NearestToPostalCode(ctx context.Context, input string, limit int) (*models.LocatorResult, error) {
	code, err := ValidatePostalCode(input)
	if err != nil {
		return nil, err
	}

	point, found, err := r.resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Info().Str("postal_code", code).Msg("Postal code not found")
		return &models.LocatorResult{
			Status:   models.LookupPostalCodeNotFound,
			Stations: []models.RankedStation{},
		}, nil
	}

	return r.Nearest(ctx, point, limit)
}

func (r *Resolver) resolve(ctx context.Context, code string) (models.GeoPoint, bool, error) {
	if r.points != nil {
		if point, ok := r.points.Get(code); ok {
			log.Debug().Str("postal_code", code).Msg("Cache HIT for postal code")
			return point, true, nil
		}
	}

	matches, err := r.geocoder.Search(ctx, code, 1)
	if err != nil {
		return models.GeoPoint{}, false, fmt.Errorf("geocoding postal code %s: %w", code, err)
	}
	if len(matches) == 0 {
		return models.GeoPoint{}, false, nil
	}

	point, err := parseMatch(code, matches[0])
	if err != nil {
		return models.GeoPoint{}, false, err
	}

	if r.points != nil {
		r.points.Add(code, point)
	}
	return point, true, nil
}

func parseMatch(code string, m geocode.Match) (models.GeoPoint, error) {
	lat, latErr := parseCoordinate(string(m.Lat))
	lon, lonErr := parseCoordinate(string(m.Lon))
	if latErr != nil || lonErr != nil {
		err := latErr
		if err == nil {
			err = lonErr
		}
		return models.GeoPoint{}, NewGeocodingMalformedError(code, string(m.Lat), string(m.Lon), err)
	}
	return models.GeoPoint{Latitude: lat, Longitude: lon}, nil
}

func parseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("coordinate %q is not finite", s)
	}
	return f, nil
}
