package station

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bbernstein/evfinder/backend-go/internal/geo"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
)

// DefaultTitle is used when a feature carries none of the title fields.
const DefaultTitle = "Ladestation"

// The dataset is not consistent about property names. Each list is consulted
// in order and the first non-empty value wins.
var (
	titleFields       = []string{"name", "title", "titel"}
	streetFields      = []string{"address", "adresse", "strasse"}
	houseNumberFields = []string{"hausnr", "hausnummer"}
	postalCodeFields  = []string{"plz", "PLZ"}
	localityFields    = []string{"ort", "ORT"}
	eastingFields     = []string{"E", "E_EPSG_2056", "x_lv95", "x"}
	northingFields    = []string{"N", "N_EPSG_2056", "y_lv95", "y"}
)

// maxCoordinateDepth bounds how deep nested coordinate arrays are flattened.
const maxCoordinateDepth = 3

// NormalizeFeature turns a raw feature into a station. Coordinates that cannot
// be resolved are NaN; use IsValid before handing the station out.
func NormalizeFeature(f models.Feature) models.Station {
	point := resolvePoint(f)
	return models.Station{
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		Title:     resolveTitle(f.Properties),
		Address:   composeAddress(f.Properties),
	}
}

// NormalizeFeatures keeps dataset order and drops every invalid station.
func NormalizeFeatures(features []models.Feature) []models.Station {
	stations := make([]models.Station, 0, len(features))
	for _, f := range features {
		s := NormalizeFeature(f)
		if IsValid(s) {
			stations = append(stations, s)
		}
	}
	return stations
}

// IsValid reports whether a station may appear in a result set.
func IsValid(s models.Station) bool {
	return geo.IsFinite(models.GeoPoint{Latitude: s.Latitude, Longitude: s.Longitude}) &&
		strings.TrimSpace(s.Title) != ""
}

func resolvePoint(f models.Feature) models.GeoPoint {
	if f.Geometry != nil && len(f.Geometry.Coordinates) > 0 {
		var raw any
		if err := json.Unmarshal(f.Geometry.Coordinates, &raw); err == nil {
			if values, ok := raw.([]any); ok {
				flat := flatten(values, maxCoordinateDepth)
				if len(flat) >= 2 {
					point := geo.ToWGS84(geo.ParseNumber(flat[0]), geo.ParseNumber(flat[1]))
					if geo.IsFinite(point) {
						return point
					}
				}
			}
		}
	}

	easting := geo.ParseNumber(firstValue(f.Properties, eastingFields))
	northing := geo.ParseNumber(firstValue(f.Properties, northingFields))
	if !math.IsNaN(easting) && !math.IsNaN(northing) && geo.IsProjected(easting, northing) {
		point := geo.LV95ToWGS84(easting, northing)
		if geo.IsFinite(point) {
			return point
		}
	}

	return models.GeoPoint{Latitude: math.NaN(), Longitude: math.NaN()}
}

func flatten(values []any, depth int) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if nested, ok := v.([]any); ok && depth > 0 {
			out = append(out, flatten(nested, depth-1)...)
			continue
		}
		out = append(out, v)
	}
	return out
}

func resolveTitle(props map[string]any) string {
	if title := firstString(props, titleFields); title != "" {
		return title
	}
	return DefaultTitle
}

func composeAddress(props map[string]any) string {
	lines := []string{
		joinNonEmpty(" ", firstString(props, streetFields), firstString(props, houseNumberFields)),
		joinNonEmpty(" ", firstString(props, postalCodeFields), firstString(props, localityFields)),
	}
	return joinNonEmpty(", ", lines...)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// firstValue returns the first property under keys that is set and not empty.
func firstValue(props map[string]any, keys []string) any {
	for _, k := range keys {
		v, ok := props[k]
		if !ok || isEmpty(v) {
			continue
		}
		return v
	}
	return nil
}

func firstString(props map[string]any, keys []string) string {
	return stringValue(firstValue(props, keys))
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0 || math.IsNaN(t)
	case bool:
		return !t
	default:
		return false
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
