package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/evfinder/backend-go/internal/cache"
	"github.com/bbernstein/evfinder/backend-go/internal/config"
	"github.com/bbernstein/evfinder/backend-go/internal/geocode"
	"github.com/bbernstein/evfinder/backend-go/internal/handler"
	"github.com/bbernstein/evfinder/backend-go/internal/locator"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/bbernstein/evfinder/backend-go/internal/station"
	"github.com/bbernstein/evfinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
	initHandler     = defaultInitHandler
)

func defaultInitHandler(ctx context.Context, cfg *config.Config) (*handler.StationsHandler, error) {
	source, err := newDatasetSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing dataset source: %w", err)
	}

	datasetCache := cache.NewDatasetCache(source, station.NormalizeFeatures)
	finder := station.NewFinder(datasetCache, cfg.ResultLimit)

	geocodeClient := client.New(client.Options{
		BaseURL: cfg.GeocoderBaseURL,
		Timeout: cfg.HTTPTimeout,
		Headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": cfg.UserAgent,
		},
	})
	geocoder := geocode.NewNominatimClient(geocodeClient, cfg.CountryCode, cfg.GeocodeRatePerSecond)

	opts := []handler.Option{handler.WithCacheStats("dataset_cache", datasetCache)}

	var points locator.PointCache
	cacheConfig := config.GetCacheConfig()
	if cacheConfig.EnableGeocodeCache {
		geocodeCache, err := cache.NewGeocodeCache(cacheConfig)
		if err != nil {
			return nil, fmt.Errorf("creating geocode cache: %w", err)
		}
		points = geocodeCache
		opts = append(opts, handler.WithCacheStats("geocode_cache", geocodeCache))
	}

	resolver := locator.NewResolver(finder, geocoder, points)
	origin := models.GeoPoint{Latitude: cfg.DefaultLatitude, Longitude: cfg.DefaultLongitude}

	return handler.NewStationsHandler(resolver, origin, opts...), nil
}

func newDatasetSource(ctx context.Context, cfg *config.Config) (cache.DatasetSource, error) {
	if cfg.UseS3Dataset() {
		s3Client, err := cache.NewS3Client(ctx, cfg.DatasetS3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		log.Info().Str("bucket", cfg.DatasetS3Bucket).Msg("Reading station dataset from S3 mirror")
		return cache.NewS3DatasetSource(s3Client, cfg.DatasetS3Bucket, cfg.DatasetS3Key), nil
	}

	datasetClient := client.New(client.Options{
		Timeout: cfg.HTTPTimeout,
		Headers: map[string]string{
			"Accept": "application/json",
		},
	})
	return cache.NewHTTPDatasetSource(datasetClient, cfg.DatasetURL), nil
}

func InitializeService() error {
	var initError error
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Msg("Environment")

		var err error
		stationsHandler, err = initHandler(context.Background(), cfg)
		if err != nil {
			initError = fmt.Errorf("failed to initialize handler: %w", err)
			log.Error().Err(err).Msg("Failed to initialize handler")
		}
	})
	return initError
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if stationsHandler == nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"responseType":"error","error":"Handler not initialized"}`,
		}, fmt.Errorf("handler not initialized")
	}
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	if err := InitializeService(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	lambdaStart(handleRequest)
}
