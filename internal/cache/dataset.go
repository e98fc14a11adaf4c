package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DatasetSource fetches the raw feature collection.
type DatasetSource interface {
	FetchFeatures(ctx context.Context) ([]models.Feature, error)
}

// Normalizer derives the valid stations from the raw features.
type Normalizer func([]models.Feature) []models.Station

const datasetKey = "stations"

// DatasetCache loads the station dataset once per process and serves it from
// memory afterwards. It is never refreshed. Concurrent callers that arrive
// before the first load completes share a single fetch; a failed fetch leaves
// the cache empty.
type DatasetCache struct {
	source    DatasetSource
	normalize Normalizer

	group   singleflight.Group
	mu      sync.RWMutex
	dataset *models.StationDataset

	fetches atomic.Uint64
	hits    atomic.Uint64
	shared  atomic.Uint64
}

func NewDatasetCache(source DatasetSource, normalize Normalizer) *DatasetCache {
	return &DatasetCache{
		source:    source,
		normalize: normalize,
	}
}

// GetDataset returns the memoized dataset, loading it on first use.
func (c *DatasetCache) GetDataset(ctx context.Context) (*models.StationDataset, error) {
	if dataset := c.cached(); dataset != nil {
		c.hits.Add(1)
		log.Debug().Msg("Cache HIT for station dataset")
		return dataset, nil
	}

	// The shared fetch must not be aborted when the first caller goes away;
	// later callers may be waiting on it.
	fetchCtx := context.WithoutCancel(ctx)

	v, err, shared := c.group.Do(datasetKey, func() (interface{}, error) {
		if dataset := c.cached(); dataset != nil {
			return dataset, nil
		}
		return c.load(fetchCtx)
	})
	if shared {
		c.shared.Add(1)
	}
	if err != nil {
		return nil, err
	}
	return v.(*models.StationDataset), nil
}

func (c *DatasetCache) cached() *models.StationDataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataset
}

func (c *DatasetCache) load(ctx context.Context) (*models.StationDataset, error) {
	log.Debug().Msg("Cache MISS for station dataset, fetching")
	c.fetches.Add(1)

	features, err := c.source.FetchFeatures(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch station dataset")
		return nil, err
	}
	if features == nil {
		features = []models.Feature{}
	}

	var stations []models.Station
	if c.normalize != nil {
		stations = c.normalize(features)
	}
	if stations == nil {
		stations = []models.Station{}
	}

	dataset := &models.StationDataset{
		Features: features,
		Stations: stations,
	}

	c.mu.Lock()
	c.dataset = dataset
	c.mu.Unlock()

	log.Info().
		Int("feature_count", len(features)).
		Int("station_count", len(stations)).
		Msg("Cached station dataset")

	return dataset, nil
}

// GetCacheStats returns statistics about dataset fetches and cache hits
func (c *DatasetCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"fetches": c.fetches.Load(),
		"hits":    c.hits.Load(),
		"shared":  c.shared.Load(),
	}
}
