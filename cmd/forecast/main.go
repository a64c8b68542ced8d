package main

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/driftmarine/tidecast/internal/api"
	"github.com/driftmarine/tidecast/internal/cache"
	"github.com/driftmarine/tidecast/internal/config"
	"github.com/driftmarine/tidecast/internal/models"
	"github.com/driftmarine/tidecast/internal/tide"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	forecastService *tide.Service
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Loading configuration failed")
		}
		cfg.InitializeLogging()

		cacheConfig := config.GetCacheConfig()

		forecastService = tide.NewService(
			newRemoteSource(cfg),
			newForecastCache(cfg, cacheConfig),
			tide.ServiceOptions{
				ForecastTTL: cacheConfig.TTLFor(cache.DataTypeTides),
				MaxInFlight: cfg.MaxInFlight,
			},
		)
	})
}

// newRemoteSource returns nil when no credential is configured, which
// puts the service into offline harmonic-only mode.
func newRemoteSource(cfg *config.Config) tide.RemoteSource {
	if cfg.HarmonicOnly() {
		log.Info().Msg("No remote credential configured, running harmonic-only")
		return nil
	}

	return tide.NewRemoteClient(tide.RemoteOptions{
		BaseURL:           cfg.StormglassBaseURL,
		APIKey:            cfg.StormglassAPIKey,
		Timeout:           cfg.HTTPTimeout,
		MaxRetries:        cfg.MaxRetries,
		RequestsPerSecond: cfg.RemoteRPS,
	})
}

// newForecastCache assembles the tiered cache. Redis is preferred for the
// primary tier; without an address an in-process LRU takes its place.
// Either tier may come up nil and the cache degrades accordingly.
func newForecastCache(cfg *config.Config, cacheConfig *config.CacheConfig) *cache.TieredCache {
	var primary cache.Store
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using in-process LRU cache")
		} else {
			primary = redisStore
		}
	}
	if primary == nil {
		lruStore, err := cache.NewLRUStore(cacheConfig.ForecastLRUSize)
		if err != nil {
			log.Warn().Err(err).Msg("LRU cache initialization failed, continuing without primary tier")
		} else {
			primary = lruStore
		}
	}

	var secondary cache.Store
	dynamoClient, err := cache.NewDynamoClient(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("DynamoDB unavailable, continuing without durable cache tier")
	} else {
		secondary = cache.NewDynamoStore(dynamoClient, cacheConfig.DynamoTableName)
	}

	return cache.NewTieredCache(primary, secondary, cacheConfig)
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	loc, err := api.ParseLocation(params)
	if err != nil {
		return api.Error("Invalid coordinates", http.StatusBadRequest)
	}

	days, err := api.ParseDays(params, tide.DefaultWindowDays)
	if err != nil {
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	forecast, err := forecastService.GetForecast(ctx, loc, days)
	if err != nil {
		if errors.Is(err, models.ErrInvalidLocation) {
			return api.Error("Invalid coordinates", http.StatusBadRequest)
		}
		log.Error().Err(err).Msg("Error getting forecast")
		return api.Error("Error getting forecast", http.StatusInternalServerError)
	}

	return api.Success(api.NewForecastResponse(forecast))
}

func main() {
	lambdaStart(handleRequest)
}
