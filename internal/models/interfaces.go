package models

import "context"

type StationFinder interface {
	FindNearestStations(ctx context.Context, point GeoPoint, limit int) ([]RankedStation, error)
}
