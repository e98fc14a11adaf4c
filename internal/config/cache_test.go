package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCacheConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected *CacheConfig
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			expected: &CacheConfig{
				GeocodeLRUSize:       500,
				GeocodeLRUTTLMinutes: 60,
				EnableGeocodeCache:   true,
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"CACHE_GEOCODE_LRU_SIZE":        "50",
				"CACHE_GEOCODE_LRU_TTL_MINUTES": "5",
				"CACHE_ENABLE_GEOCODE":          "false",
			},
			expected: &CacheConfig{
				GeocodeLRUSize:       50,
				GeocodeLRUTTLMinutes: 5,
				EnableGeocodeCache:   false,
			},
		},
		{
			name: "invalid values fall back to defaults",
			envVars: map[string]string{
				"CACHE_GEOCODE_LRU_SIZE":        "invalid",
				"CACHE_GEOCODE_LRU_TTL_MINUTES": "",
				"CACHE_ENABLE_GEOCODE":          "1",
			},
			expected: &CacheConfig{
				GeocodeLRUSize:       500,
				GeocodeLRUTTLMinutes: 60,
				EnableGeocodeCache:   true,
			},
		},
		{
			name: "non-positive values fall back to defaults",
			envVars: map[string]string{
				"CACHE_GEOCODE_LRU_SIZE":        "0",
				"CACHE_GEOCODE_LRU_TTL_MINUTES": "-5",
			},
			expected: &CacheConfig{
				GeocodeLRUSize:       500,
				GeocodeLRUTTLMinutes: 60,
				EnableGeocodeCache:   true,
			},
		},
		{
			name: "negative size",
			envVars: map[string]string{
				"CACHE_GEOCODE_LRU_SIZE": "-1",
			},
			expected: &CacheConfig{
				GeocodeLRUSize:       500,
				GeocodeLRUTTLMinutes: 60,
				EnableGeocodeCache:   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"CACHE_GEOCODE_LRU_SIZE", "CACHE_GEOCODE_LRU_TTL_MINUTES", "CACHE_ENABLE_GEOCODE"} {
				// t.Setenv restores the original value after the test
				t.Setenv(key, "")
				require.NoError(t, os.Unsetenv(key))
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			assert.Equal(t, tt.expected, GetCacheConfig())
		})
	}
}

func TestGetGeocodeLRUTTL(t *testing.T) {
	cfg := &CacheConfig{GeocodeLRUTTLMinutes: 90}
	assert.Equal(t, 90*time.Minute, cfg.GetGeocodeLRUTTL())
}
