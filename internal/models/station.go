package models

import "encoding/json"

// GeoPoint is a WGS84 position in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geometry keeps the coordinates exactly as delivered by the dataset. They may be
// a flat pair or nested arrays, with numbers or strings as leaves.
type Geometry struct {
	Type        string          `json:"type,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

// Feature is a raw record of the charging-station dataset.
type Feature struct {
	Geometry   *Geometry      `json:"geometry,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type Station struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
}

// RankedStation is a station together with its distance to a query point.
type RankedStation struct {
	Station
	DistanceKm float64 `json:"distanceKm"`
}

// StationDataset holds the raw features and the valid stations derived from them.
type StationDataset struct {
	Features []Feature
	Stations []Station
}

type LookupStatus string

const (
	LookupFound              LookupStatus = "found"
	LookupNoStations         LookupStatus = "no_stations"
	LookupPostalCodeNotFound LookupStatus = "postal_code_not_found"
)

// LocatorResult is the outcome of a successful lookup. Origin is nil when the
// postal code could not be resolved.
type LocatorResult struct {
	Status   LookupStatus    `json:"status"`
	Origin   *GeoPoint       `json:"origin,omitempty"`
	Stations []RankedStation `json:"stations"`
}

// NewLocatorResult derives the status from the ranked stations.
func NewLocatorResult(origin GeoPoint, stations []RankedStation) *LocatorResult {
	status := LookupFound
	if len(stations) == 0 {
		status = LookupNoStations
	}
	if stations == nil {
		stations = []RankedStation{}
	}
	return &LocatorResult{
		Status:   status,
		Origin:   &origin,
		Stations: stations,
	}
}
