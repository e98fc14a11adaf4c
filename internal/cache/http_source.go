package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bbernstein/evfinder/backend-go/internal/config"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/bbernstein/evfinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// HTTPDatasetSource downloads the feature collection from a fixed URL.
type HTTPDatasetSource struct {
	httpClient client.Interface
	url        string
}

func NewHTTPDatasetSource(httpClient client.Interface, url string) *HTTPDatasetSource {
	if url == "" {
		url = config.DefaultDatasetURL
	}
	return &HTTPDatasetSource{
		httpClient: httpClient,
		url:        url,
	}
}

func (s *HTTPDatasetSource) FetchFeatures(ctx context.Context) ([]models.Feature, error) {
	log.Debug().Str("url", s.url).Msg("Fetching station dataset")

	resp, err := s.httpClient.Get(ctx, s.url)
	if err != nil {
		return nil, NewDatasetTransportError(fmt.Errorf("fetching dataset: %w", err))
	}
	if !resp.IsSuccess() {
		return nil, NewDatasetStatusError(resp.StatusCode, resp.Body)
	}

	features, err := decodeFeatureCollection(resp.Body)
	if err != nil {
		return nil, &DatasetUnavailableError{
			StatusCode: resp.StatusCode,
			Excerpt:    excerpt(resp.Body, maxExcerptBytes),
			Err:        err,
		}
	}
	return features, nil
}

// decodeFeatureCollection extracts the features array. A body that is not
// JSON is an error. Any other shape without a usable features array yields an
// empty collection.
func decodeFeatureCollection(body []byte) ([]models.Feature, error) {
	var collection map[string]json.RawMessage
	if err := json.Unmarshal(body, &collection); err != nil {
		if !json.Valid(body) {
			return nil, fmt.Errorf("decoding feature collection: %w", err)
		}
		log.Warn().Msg("Station dataset is not a JSON object")
		return []models.Feature{}, nil
	}

	var rawFeatures []json.RawMessage
	if err := json.Unmarshal(collection["features"], &rawFeatures); err != nil {
		log.Warn().Msg("Station dataset has no usable features array")
		return []models.Feature{}, nil
	}

	features := make([]models.Feature, 0, len(rawFeatures))
	for _, raw := range rawFeatures {
		features = append(features, decodeFeature(raw))
	}
	return features, nil
}

// decodeFeature keeps whatever part of a record is usable. A malformed
// geometry or properties member does not discard its sibling.
func decodeFeature(raw json.RawMessage) models.Feature {
	var f models.Feature

	var record struct {
		Geometry   json.RawMessage `json:"geometry"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return f
	}

	var properties map[string]any
	if err := json.Unmarshal(record.Properties, &properties); err == nil {
		f.Properties = properties
	}

	var geometry map[string]json.RawMessage
	if err := json.Unmarshal(record.Geometry, &geometry); err == nil && geometry != nil {
		g := &models.Geometry{Coordinates: geometry["coordinates"]}
		var geometryType string
		if err := json.Unmarshal(geometry["type"], &geometryType); err == nil {
			g.Type = geometryType
		}
		f.Geometry = g
	}

	return f
}
