package station

import (
	"context"

	"github.com/bbernstein/evfinder/backend-go/internal/models"
)

// DefaultLimit is the number of stations returned when the caller asks for none.
const DefaultLimit = 5

// DatasetProvider serves the normalized station dataset.
type DatasetProvider interface {
	GetDataset(ctx context.Context) (*models.StationDataset, error)
}

var _ models.StationFinder = (*Finder)(nil)
