package station

import (
	"context"
	"sort"
	"sync"

	"github.com/bbernstein/evfinder/backend-go/internal/geo"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

const workerCount = 4

// Finder ranks the stations of the charging-station dataset by distance.
type Finder struct {
	dataset      DatasetProvider
	defaultLimit int
}

func NewFinder(dataset DatasetProvider, defaultLimit int) *Finder {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Finder{
		dataset:      dataset,
		defaultLimit: defaultLimit,
	}
}

// FindNearestStations returns up to limit stations ordered by distance to point.
// Stations at equal distance keep their dataset order. An empty result is not
// an error.
func (f *Finder) FindNearestStations(ctx context.Context, point models.GeoPoint, limit int) ([]models.RankedStation, error) {
	if limit <= 0 {
		limit = f.defaultLimit
	}

	dataset, err := f.dataset.GetDataset(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankStations(point, dataset.Stations)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	log.Debug().
		Float64("lat", point.Latitude).
		Float64("lon", point.Longitude).
		Int("candidates", len(dataset.Stations)).
		Int("returned", len(ranked)).
		Msg("FindNearestStations: ranked stations")

	return ranked, nil
}

// rankStations computes distances with a small worker pool. Every worker writes
// to the slot of its input index, so the result keeps dataset order.
func rankStations(point models.GeoPoint, stations []models.Station) []models.RankedStation {
	ranked := make([]models.RankedStation, len(stations))
	if len(stations) == 0 {
		return ranked
	}

	work := make(chan int, len(stations))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				s := stations[idx]
				ranked[idx] = models.RankedStation{
					Station: s,
					DistanceKm: geo.Distance(point, models.GeoPoint{
						Latitude:  s.Latitude,
						Longitude: s.Longitude,
					}),
				}
			}
		}()
	}

	for i := range stations {
		work <- i
	}
	close(work)
	wg.Wait()

	return ranked
}
