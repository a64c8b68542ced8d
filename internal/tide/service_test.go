package tide

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftmarine/tidecast/internal/models"
)

type fakeRemote struct {
	calls    int
	err      error
	forecast *models.TideForecast
}

func (f *fakeRemote) FetchForecast(_ context.Context, _ models.Location, _, _ time.Time) (*models.TideForecast, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.forecast, nil
}

type fakeCache struct {
	entries map[string][]byte
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	data, ok := f.entries[key]
	return data, ok
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	return nil
}

func apiForecast() *models.TideForecast {
	return &models.TideForecast{
		Extremes: []models.TideExtreme{
			{Timestamp: time.Date(2025, 6, 1, 4, 12, 0, 0, time.UTC), Height: 1.4, Kind: models.TideHigh},
		},
		HourlySamples: []models.TideSample{
			{Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Height: 1.0},
		},
		Source:      models.SourceAPI,
		GeneratedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func fixedNow(s *Service) {
	s.now = func() time.Time {
		return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	}
}

func TestGetForecastInvalidLocation(t *testing.T) {
	service := NewService(nil, nil, ServiceOptions{})

	_, err := service.GetForecast(context.Background(), models.Location{Latitude: 95, Longitude: 0}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidLocation))
}

func TestGetForecastHarmonicOnly(t *testing.T) {
	service := NewService(nil, nil, ServiceOptions{})
	fixedNow(service)

	forecast, err := service.GetForecast(context.Background(), models.Location{Latitude: 7.6, Longitude: 98.4}, 3)
	require.NoError(t, err)

	assert.Equal(t, models.SourceHarmonic, forecast.Source)
	assert.NotEmpty(t, forecast.Extremes)
	assert.Len(t, forecast.HourlySamples, 3*24+1)
}

func TestGetForecastRemoteSuccess(t *testing.T) {
	remote := &fakeRemote{forecast: apiForecast()}
	service := NewService(remote, nil, ServiceOptions{})
	fixedNow(service)

	forecast, err := service.GetForecast(context.Background(), models.Location{Latitude: 7.6, Longitude: 98.4}, 1)
	require.NoError(t, err)

	assert.Equal(t, models.SourceAPI, forecast.Source)
	assert.Equal(t, 1, remote.calls)
}

func TestGetForecastFallsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{err: fmt.Errorf("%w: remote returned status 503", ErrRemoteUnavailable)}
	service := NewService(remote, nil, ServiceOptions{})
	fixedNow(service)

	forecast, err := service.GetForecast(context.Background(), models.Location{Latitude: 47.6, Longitude: -122.3}, 2)
	require.NoError(t, err, "remote failure must never surface to the caller")

	assert.Equal(t, models.SourceHarmonic, forecast.Source)
	assert.NotEmpty(t, forecast.Extremes)
	assert.Equal(t, 1, remote.calls)
}

func TestGetForecastRetriesRemoteEveryRequest(t *testing.T) {
	// Failure is not remembered: each request tries the remote fresh.
	remote := &fakeRemote{err: ErrRemoteUnavailable}
	service := NewService(remote, nil, ServiceOptions{})
	fixedNow(service)

	loc := models.Location{Latitude: 47.6, Longitude: -122.3}
	for i := 0; i < 3; i++ {
		_, err := service.GetForecast(context.Background(), loc, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, remote.calls)
}

func TestGetForecastCacheRoundTrip(t *testing.T) {
	remote := &fakeRemote{forecast: apiForecast()}
	forecastCache := newFakeCache()
	service := NewService(remote, forecastCache, ServiceOptions{})
	fixedNow(service)

	loc := models.Location{Latitude: 7.6, Longitude: 98.4}

	first, err := service.GetForecast(context.Background(), loc, 1)
	require.NoError(t, err)
	require.Equal(t, 1, remote.calls)

	second, err := service.GetForecast(context.Background(), loc, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.calls, "second request must be served from cache")

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached forecast differs from original (-first +second):\n%s", diff)
	}
}

func TestGetForecastCacheKeyQuantization(t *testing.T) {
	remote := &fakeRemote{forecast: apiForecast()}
	forecastCache := newFakeCache()
	service := NewService(remote, forecastCache, ServiceOptions{})
	fixedNow(service)

	// ~40m apart, same quantized key.
	_, err := service.GetForecast(context.Background(), models.Location{Latitude: 7.6001, Longitude: 98.4001}, 1)
	require.NoError(t, err)
	_, err = service.GetForecast(context.Background(), models.Location{Latitude: 7.6004, Longitude: 98.4003}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, remote.calls)
}

func TestGetForecastCacheWriteFailureIsAbsorbed(t *testing.T) {
	forecastCache := newFakeCache()
	forecastCache.setErr = errors.New("cache write failed")
	service := NewService(nil, forecastCache, ServiceOptions{})
	fixedNow(service)

	forecast, err := service.GetForecast(context.Background(), models.Location{Latitude: 7.6, Longitude: 98.4}, 1)
	require.NoError(t, err)
	assert.NotNil(t, forecast)
}

func TestGetForecastZeroLengthWindow(t *testing.T) {
	service := NewService(nil, nil, ServiceOptions{})
	fixedNow(service)

	forecast, err := service.GetForecast(context.Background(), models.Location{Latitude: 7.6, Longitude: 98.4}, 0)
	require.NoError(t, err)
	assert.Len(t, forecast.HourlySamples, 1)
	assert.Empty(t, forecast.Extremes)
}

func TestGetForecastNegativeDaysDefaults(t *testing.T) {
	service := NewService(nil, nil, ServiceOptions{})
	fixedNow(service)

	forecast, err := service.GetForecast(context.Background(), models.Location{Latitude: 7.6, Longitude: 98.4}, -1)
	require.NoError(t, err)
	assert.Len(t, forecast.HourlySamples, DefaultWindowDays*24+1)
}

func TestGetForecastCancelledContextSkipsCacheWrite(t *testing.T) {
	forecastCache := newFakeCache()
	service := NewService(nil, forecastCache, ServiceOptions{})
	fixedNow(service)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.GetForecast(ctx, models.Location{Latitude: 7.6, Longitude: 98.4}, 1)
	require.Error(t, err)
	assert.Empty(t, forecastCache.entries, "cancelled request must not write to cache")
}

func TestTropicalDayForecastShape(t *testing.T) {
	service := NewService(nil, nil, ServiceOptions{})
	fixedNow(service)

	forecast, err := service.GetForecast(context.Background(), models.Location{Latitude: 7.6, Longitude: 98.4}, 1)
	require.NoError(t, err)

	highs, lows := 0, 0
	for _, e := range forecast.Extremes {
		if e.Kind == models.TideHigh {
			highs++
		} else {
			lows++
		}
		assert.InDelta(t, 1.5, e.Height, 1.85)
	}

	// One day of mixed semidiurnal tide: one to three of each.
	assert.GreaterOrEqual(t, highs, 1)
	assert.LessOrEqual(t, highs, 3)
	assert.GreaterOrEqual(t, lows, 1)
	assert.LessOrEqual(t, lows, 3)
}

func TestGetForecastBatch(t *testing.T) {
	remote := &fakeRemote{forecast: apiForecast()}
	service := NewService(remote, newFakeCache(), ServiceOptions{MaxInFlight: 2})
	fixedNow(service)

	locations := []models.Location{
		{Latitude: 7.6, Longitude: 98.4},
		{Latitude: 47.6, Longitude: -122.3},
		{Latitude: 95.0, Longitude: 0.0}, // invalid
	}

	results := service.GetForecastBatch(context.Background(), locations, 1)
	require.Len(t, results, 3)

	assert.Equal(t, locations[0], results[0].Location)
	require.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Forecast)

	require.NoError(t, results[1].Err)
	assert.NotNil(t, results[1].Forecast)

	require.Error(t, results[2].Err)
	assert.True(t, errors.Is(results[2].Err, models.ErrInvalidLocation))
	assert.Nil(t, results[2].Forecast)
}
