package geo

import (
	"math"

	"github.com/bbernstein/evfinder/backend-go/internal/models"
)

const earthRadius = 6371.0 // km

// Distance returns the haversine distance between two points in kilometres.
func Distance(a, b models.GeoPoint) float64 {
	return calculateDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
