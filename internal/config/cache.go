package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// In-process LRU settings (primary tier fallback)
	ForecastLRUSize int

	// TTL applied when promoting a secondary-tier hit into the primary
	PromoteTTLMinutes int

	// Per-data-type expiry
	TideTTLHours      int
	MarineTTLMinutes  int
	TurbidityTTLHours int

	// DynamoDB settings (secondary, durable tier)
	DynamoTableName string
}

const (
	// Default values
	defaultForecastLRUSize   = 1000
	defaultPromoteTTLMinutes = 15
	defaultTideTTLHours      = 12
	defaultMarineTTLMinutes  = 30
	defaultTurbidityTTLHours = 6
	defaultDynamoTableName   = "tidecast-forecast-cache"
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		ForecastLRUSize:   getEnvInt("CACHE_FORECAST_LRU_SIZE", defaultForecastLRUSize),
		PromoteTTLMinutes: getEnvInt("CACHE_PROMOTE_TTL_MINUTES", defaultPromoteTTLMinutes),
		TideTTLHours:      getEnvInt("CACHE_TIDE_TTL_HOURS", defaultTideTTLHours),
		MarineTTLMinutes:  getEnvInt("CACHE_MARINE_TTL_MINUTES", defaultMarineTTLMinutes),
		TurbidityTTLHours: getEnvInt("CACHE_TURBIDITY_TTL_HOURS", defaultTurbidityTTLHours),
		DynamoTableName:   getEnvString("CACHE_DYNAMO_TABLE", defaultDynamoTableName),
	}

	log.Debug().
		Int("ForecastLRUSize", config.ForecastLRUSize).
		Int("PromoteTTLMinutes", config.PromoteTTLMinutes).
		Int("TideTTLHours", config.TideTTLHours).
		Int("MarineTTLMinutes", config.MarineTTLMinutes).
		Int("TurbidityTTLHours", config.TurbidityTTLHours).
		Str("DynamoTableName", config.DynamoTableName).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetPromoteTTL() time.Duration {
	return time.Duration(c.PromoteTTLMinutes) * time.Minute
}

// TTLFor maps a data type to its expiry. Tide forecasts keep a long TTL
// given the low rate of astronomical change; marine data is volatile.
func (c *CacheConfig) TTLFor(dataType string) time.Duration {
	switch dataType {
	case "tides":
		return time.Duration(c.TideTTLHours) * time.Hour
	case "marine":
		return time.Duration(c.MarineTTLMinutes) * time.Minute
	case "turbidity":
		return time.Duration(c.TurbidityTTLHours) * time.Hour
	default:
		return time.Hour
	}
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

func getEnvString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return defaultVal
}
