package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultDatasetURL      = "https://data.geo.admin.ch/ch.bfe.ladestellen-elektromobilitaet/data/ch.bfe.ladestellen-elektromobilitaet_de.json"
	DefaultGeocoderBaseURL = "https://nominatim.openstreetmap.org"
	DefaultCountryCode     = "ch"
	DefaultUserAgent       = "evfinder/1.0 (+https://github.com/bbernstein/evfinder)"

	// Winterthur, the default origin when no location is given.
	DefaultLatitude  = 47.4988
	DefaultLongitude = 8.7237
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration

	DatasetURL        string
	DatasetS3Bucket   string
	DatasetS3Key      string
	DatasetS3Endpoint string

	GeocoderBaseURL      string
	CountryCode          string
	UserAgent            string
	GeocodeRatePerSecond float64
	ResultLimit          int
	DefaultLatitude      float64
	DefaultLongitude     float64
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithDatasetURL(url string) Option {
	return func(c *Config) {
		c.DatasetURL = url
	}
}

// WithDatasetS3 reads the dataset from an S3 mirror instead of the public URL.
func WithDatasetS3(bucket, key, endpoint string) Option {
	return func(c *Config) {
		c.DatasetS3Bucket = bucket
		c.DatasetS3Key = key
		c.DatasetS3Endpoint = endpoint
	}
}

func WithGeocoder(baseURL, countryCode, userAgent string) Option {
	return func(c *Config) {
		if baseURL != "" {
			c.GeocoderBaseURL = baseURL
		}
		if countryCode != "" {
			c.CountryCode = countryCode
		}
		if userAgent != "" {
			c.UserAgent = userAgent
		}
	}
}

func WithGeocodeRate(perSecond float64) Option {
	return func(c *Config) {
		if perSecond > 0 {
			c.GeocodeRatePerSecond = perSecond
		}
	}
}

func WithResultLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.ResultLimit = limit
		}
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:          "production",
		LogLevel:             zerolog.InfoLevel,
		HTTPTimeout:          10 * time.Second,
		DatasetURL:           DefaultDatasetURL,
		GeocoderBaseURL:      DefaultGeocoderBaseURL,
		CountryCode:          DefaultCountryCode,
		UserAgent:            DefaultUserAgent,
		GeocodeRatePerSecond: 1,
		ResultLimit:          5,
		DefaultLatitude:      DefaultLatitude,
		DefaultLongitude:     DefaultLongitude,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// UseS3Dataset reports whether the dataset comes from the S3 mirror.
func (c *Config) UseS3Dataset() bool {
	return c.DatasetS3Bucket != ""
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	datasetURL := getEnvOrDefault("DATASET_URL", DefaultDatasetURL)
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithDatasetURL(datasetURL),
		WithDatasetS3(os.Getenv("DATASET_S3_BUCKET"), os.Getenv("DATASET_S3_KEY"), os.Getenv("DATASET_S3_ENDPOINT")),
		WithGeocoder(os.Getenv("GEOCODER_BASE_URL"), os.Getenv("GEOCODER_COUNTRY"), os.Getenv("GEOCODER_USER_AGENT")),
		WithGeocodeRate(getEnvFloat("GEOCODER_RATE_PER_SECOND", 1)),
		WithResultLimit(getEnvInt("RESULT_LIMIT", 5)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
