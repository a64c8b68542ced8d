package tide

import (
	"context"
	"time"

	"github.com/driftmarine/tidecast/internal/models"
)

// Forecaster is the sole inbound entry point for collaborators.
type Forecaster interface {
	GetForecast(ctx context.Context, loc models.Location, days int) (*models.TideForecast, error)
}

// RemoteSource fetches station-based forecasts from a network service.
// Implementations normalize every failure to ErrRemoteUnavailable.
type RemoteSource interface {
	FetchForecast(ctx context.Context, loc models.Location, start, end time.Time) (*models.TideForecast, error)
}

// ForecastCache is what the orchestrator needs from the tiered cache.
// Tier degradation is the cache's business; Get simply misses.
type ForecastCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
