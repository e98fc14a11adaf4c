// Package mapview turns locator results into marker and viewport plans for a
// map widget. It only produces data; rendering is left to the client.
package mapview

import (
	"fmt"
	"math"
	"strings"

	"github.com/bbernstein/evfinder/backend-go/internal/models"
)

const (
	// FitPadding is the viewport padding in pixels around the fitted bounds.
	FitPadding = 30
	// FocusZoom is the zoom level used when centering on a single station.
	FocusZoom = 15
)

type MarkerKind string

const (
	MarkerStation MarkerKind = "station"
	MarkerOrigin  MarkerKind = "origin"
)

type Marker struct {
	Kind      MarkerKind `json:"kind"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Title     string     `json:"title"`
	Popup     string     `json:"popup,omitempty"`
	OpenPopup bool       `json:"openPopup,omitempty"`
}

// Bounds is the south-west / north-east box the viewport has to show.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Plan describes what the map should display. Either Bounds or Center is set.
type Plan struct {
	Markers []Marker         `json:"markers"`
	Bounds  *Bounds          `json:"bounds,omitempty"`
	Padding int              `json:"padding,omitempty"`
	Center  *models.GeoPoint `json:"center,omitempty"`
	Zoom    int              `json:"zoom,omitempty"`
}

// FocusRequest asks the map to center on one station.
type FocusRequest struct {
	Point     models.GeoPoint
	Title     string
	OpenPopup bool
}

// BuildPlan places one marker per ranked station plus the query point and fits
// the viewport around all of them.
func BuildPlan(stations []models.RankedStation, origin models.GeoPoint) Plan {
	markers := make([]Marker, 0, len(stations)+1)
	for i, s := range stations {
		markers = append(markers, Marker{
			Kind:      MarkerStation,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Title:     s.Title,
			Popup:     stationPopup(i+1, s.Station),
		})
	}
	markers = append(markers, Marker{
		Kind:      MarkerOrigin,
		Latitude:  origin.Latitude,
		Longitude: origin.Longitude,
		Title:     "Standort",
	})

	return Plan{
		Markers: markers,
		Bounds:  boundsOf(markers),
		Padding: FitPadding,
	}
}

// FocusPlan centers the map on a single station.
func FocusPlan(req FocusRequest) Plan {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Ladestation"
	}

	marker := Marker{
		Kind:      MarkerStation,
		Latitude:  req.Point.Latitude,
		Longitude: req.Point.Longitude,
		Title:     title,
	}
	if req.OpenPopup {
		marker.Popup = title
		marker.OpenPopup = true
	}

	center := req.Point
	return Plan{
		Markers: []Marker{marker},
		Center:  &center,
		Zoom:    FocusZoom,
	}
}

func stationPopup(rank int, s models.Station) string {
	popup := fmt.Sprintf("%d. %s", rank, s.Title)
	if s.Address != "" {
		popup += "\n" + s.Address
	}
	return popup
}

func boundsOf(markers []Marker) *Bounds {
	if len(markers) == 0 {
		return nil
	}
	b := &Bounds{
		South: math.Inf(1),
		West:  math.Inf(1),
		North: math.Inf(-1),
		East:  math.Inf(-1),
	}
	for _, m := range markers {
		b.South = math.Min(b.South, m.Latitude)
		b.North = math.Max(b.North, m.Latitude)
		b.West = math.Min(b.West, m.Longitude)
		b.East = math.Max(b.East, m.Longitude)
	}
	return b
}
