package tide

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/driftmarine/tidecast/internal/cache"
	"github.com/driftmarine/tidecast/internal/harmonic"
	"github.com/driftmarine/tidecast/internal/metrics"
	"github.com/driftmarine/tidecast/internal/models"
)

// DefaultWindowDays is the look-ahead used when a caller does not specify one.
const DefaultWindowDays = 7

// Service orchestrates forecast production: cache first, then the remote
// station source, then the harmonic model. The remote/harmonic decision is
// made fresh on every request; prior failures are not remembered.
//
// The harmonic path never fails for a valid location, so a caller always
// gets a forecast; its Source tag discloses whether it is station data or
// the offline approximation.
type Service struct {
	remote      RemoteSource // nil when no credential is configured
	cache       ForecastCache
	forecastTTL time.Duration
	sampleStep  time.Duration
	maxInFlight int
	now         func() time.Time
}

type ServiceOptions struct {
	// ForecastTTL is the cache expiry for forecasts, default 12h.
	ForecastTTL time.Duration
	// SampleStep is the harmonic curve resolution, default hourly.
	SampleStep time.Duration
	// MaxInFlight bounds concurrent per-location pipelines in batch
	// refreshes, default 4.
	MaxInFlight int
}

func NewService(remote RemoteSource, forecastCache ForecastCache, opts ServiceOptions) *Service {
	if opts.ForecastTTL <= 0 {
		opts.ForecastTTL = 12 * time.Hour
	}
	if opts.SampleStep <= 0 {
		opts.SampleStep = time.Hour
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = 4
	}

	return &Service{
		remote:      remote,
		cache:       forecastCache,
		forecastTTL: opts.ForecastTTL,
		sampleStep:  opts.SampleStep,
		maxInFlight: opts.MaxInFlight,
		now:         time.Now,
	}
}

// GetForecast returns the tide forecast for the location over the next
// `days` days. Only an invalid location yields an error; every other
// failure mode is absorbed and expressed as the forecast's Source tag or
// a log line.
func (s *Service) GetForecast(ctx context.Context, loc models.Location, days int) (*models.TideForecast, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if days < 0 {
		days = DefaultWindowDays
	}

	key := cache.ForecastKey(loc, days)
	if s.cache != nil {
		if data, found := s.cache.Get(ctx, key); found {
			var cached models.TideForecast
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
		}
	}

	start := s.now().UTC()
	end := start.AddDate(0, 0, days)

	forecast, err := s.orchestrate(ctx, loc, start, end)
	if err != nil {
		return nil, err
	}

	// A cancelled request must not overwrite previously cached data.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if s.cache != nil {
		data, err := json.Marshal(forecast)
		if err == nil {
			if err := s.cache.Set(ctx, key, data, s.forecastTTL); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Caching forecast failed, serving uncached")
			}
		}
	}

	return forecast, nil
}

func (s *Service) orchestrate(ctx context.Context, loc models.Location, start, end time.Time) (*models.TideForecast, error) {
	if s.remote != nil {
		metrics.IncRemoteRequest()
		forecast, err := s.remote.FetchForecast(ctx, loc, start, end)
		if err == nil {
			return forecast, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, ErrRemoteUnavailable) {
			log.Warn().Err(err).Msg("Remote source returned unclassified error")
		}
		metrics.IncRemoteFailure()
		log.Warn().Err(err).
			Float64("lat", loc.Latitude).
			Float64("lng", loc.Longitude).
			Msg("Remote tide source failed, using harmonic fallback")
	}

	return s.harmonicForecast(loc, start, end)
}

func (s *Service) harmonicForecast(loc models.Location, start, end time.Time) (*models.TideForecast, error) {
	samples, err := harmonic.SynthesizeCurve(loc, start, end, s.sampleStep)
	if err != nil {
		return nil, err
	}
	heightAt, err := harmonic.ContinuousHeight(loc)
	if err != nil {
		return nil, err
	}

	metrics.IncHarmonicForecast()
	return &models.TideForecast{
		Extremes:      FindExtremes(samples, heightAt),
		HourlySamples: samples,
		Source:        models.SourceHarmonic,
		GeneratedAt:   s.now().UTC(),
	}, nil
}

// BatchResult pairs one location's forecast with its outcome.
type BatchResult struct {
	Location models.Location
	Forecast *models.TideForecast
	Err      error
}

// GetForecastBatch runs the per-location pipelines concurrently, bounded
// by MaxInFlight. Each pipeline is sequential within itself; completion
// order across locations is unspecified. Results are indexed to match the
// input slice.
func (s *Service) GetForecastBatch(ctx context.Context, locations []models.Location, days int) []BatchResult {
	results := make([]BatchResult, len(locations))
	sem := make(chan struct{}, s.maxInFlight)

	var wg sync.WaitGroup
	for i, loc := range locations {
		wg.Add(1)
		go func(i int, loc models.Location) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = BatchResult{Location: loc, Err: ctx.Err()}
				return
			}

			forecast, err := s.GetForecast(ctx, loc, days)
			results[i] = BatchResult{Location: loc, Forecast: forecast, Err: err}
		}(i, loc)
	}
	wg.Wait()

	return results
}
