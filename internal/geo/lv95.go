// Package geo holds the coordinate math used by the station locator: the
// LV95 to WGS84 approximation, numeric token parsing and great-circle distance.
package geo

import (
	"math"

	"github.com/bbernstein/evfinder/backend-go/internal/models"
)

// ProjectedThreshold separates LV95 metres from WGS84 degrees. Degrees never
// exceed it in magnitude, LV95 eastings and northings always do.
const ProjectedThreshold = 1000.0

// LV95ToWGS84 converts Swiss LV95 (EPSG:2056) easting/northing to WGS84 using
// swisstopo's approximate polynomial. Only valid inside Switzerland.
func LV95ToWGS84(easting, northing float64) models.GeoPoint {
	e := (easting - 2600000) / 1e6
	n := (northing - 1200000) / 1e6

	lon := 2.6779094 + 4.728982*e + 0.791484*e*n + 0.1306*e*n*n - 0.0436*math.Pow(e, 3)
	lat := 16.9023892 + 3.238272*n - 0.270978*(e*e) - 0.002528*(n*n) - 0.0447*(e*e)*n - 0.014*math.Pow(n, 3)

	return models.GeoPoint{
		Latitude:  lat * (100.0 / 36.0),
		Longitude: lon * (100.0 / 36.0),
	}
}

// IsProjected reports whether a coordinate pair has to go through LV95ToWGS84.
func IsProjected(x, y float64) bool {
	return math.Abs(x) > ProjectedThreshold || math.Abs(y) > ProjectedThreshold
}

// ToWGS84 interprets a pair taken from the dataset. Projected pairs are
// (easting, northing), everything else is already (longitude, latitude).
func ToWGS84(x, y float64) models.GeoPoint {
	if IsProjected(x, y) {
		return LV95ToWGS84(x, y)
	}
	return models.GeoPoint{Latitude: y, Longitude: x}
}

// IsFinite reports whether both components are usable numbers.
func IsFinite(p models.GeoPoint) bool {
	return isFinite(p.Latitude) && isFinite(p.Longitude)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
