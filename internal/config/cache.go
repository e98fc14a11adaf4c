package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Postal code geocoding LRU
	GeocodeLRUSize       int
	GeocodeLRUTTLMinutes int
	EnableGeocodeCache   bool
}

const (
	// Default values
	defaultGeocodeLRUSize       = 500
	defaultGeocodeLRUTTLMinutes = 60
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		GeocodeLRUSize:       getEnvInt("CACHE_GEOCODE_LRU_SIZE", defaultGeocodeLRUSize),
		GeocodeLRUTTLMinutes: getEnvInt("CACHE_GEOCODE_LRU_TTL_MINUTES", defaultGeocodeLRUTTLMinutes),
		EnableGeocodeCache:   getEnvBool("CACHE_ENABLE_GEOCODE", true),
	}

	if config.GeocodeLRUSize <= 0 {
		log.Warn().Int("GeocodeLRUSize", config.GeocodeLRUSize).Msg("Geocode LRU size must be positive, using default")
		config.GeocodeLRUSize = defaultGeocodeLRUSize
	}
	if config.GeocodeLRUTTLMinutes <= 0 {
		log.Warn().Int("GeocodeLRUTTLMinutes", config.GeocodeLRUTTLMinutes).Msg("Geocode LRU TTL must be positive, using default")
		config.GeocodeLRUTTLMinutes = defaultGeocodeLRUTTLMinutes
	}

	log.Debug().
		Int("GeocodeLRUSize", config.GeocodeLRUSize).
		Int("GeocodeLRUTTLMinutes", config.GeocodeLRUTTLMinutes).
		Bool("EnableGeocodeCache", config.EnableGeocodeCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetGeocodeLRUTTL() time.Duration {
	return time.Duration(c.GeocodeLRUTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Msg("Invalid number in environment variable, using default")
	}
	return defaultVal
}
