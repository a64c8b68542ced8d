package tide

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/driftmarine/tidecast/internal/models"
	"github.com/driftmarine/tidecast/pkg/http/client"
)

// RemoteClient fetches tide extremes and hourly sea levels from a
// Stormglass-style point API. The service is treated as unreliable:
// transient failures (timeouts, 5xx) get a bounded retry with doubling
// backoff, credential and quota failures fail immediately, and every
// outcome other than a clean payload is normalized to ErrRemoteUnavailable.
type RemoteClient struct {
	httpClient *client.Client
	maxRetries int
	limiter    *rate.Limiter
	backoff    time.Duration
}

type RemoteOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// MaxRetries is the total attempt budget per request, default 3.
	MaxRetries int
	// RequestsPerSecond paces calls toward the remote service, default 5.
	RequestsPerSecond float64
}

func NewRemoteClient(opts RemoteOptions) *RemoteClient {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}

	httpClient := client.New(client.Options{
		BaseURL: opts.BaseURL,
		Timeout: opts.Timeout,
		Headers: map[string]string{"Authorization": opts.APIKey},
	})

	return &RemoteClient{
		httpClient: httpClient,
		maxRetries: opts.MaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		backoff:    500 * time.Millisecond,
	}
}

// FetchForecast retrieves extremes and hourly heights for the window and
// assembles them into an API-sourced forecast.
func (c *RemoteClient) FetchForecast(ctx context.Context, loc models.Location, start, end time.Time) (*models.TideForecast, error) {
	extremes, err := c.fetchExtremes(ctx, loc, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching extremes: %v", ErrRemoteUnavailable, err)
	}

	samples, err := c.fetchSeaLevel(ctx, loc, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching sea level: %v", ErrRemoteUnavailable, err)
	}

	// An empty sea-level series means the service had no data for the
	// point; partial results are never passed along.
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sea level response", ErrRemoteUnavailable)
	}

	return &models.TideForecast{
		Extremes:      extremes,
		HourlySamples: samples,
		Source:        models.SourceAPI,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

func pointQuery(loc models.Location, start, end time.Time) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	q.Set("lng", strconv.FormatFloat(loc.NormalizedLongitude(), 'f', 4, 64))
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	return q.Encode()
}

func (c *RemoteClient) fetchExtremes(ctx context.Context, loc models.Location, start, end time.Time) ([]models.TideExtreme, error) {
	body, err := c.get(ctx, "/tide/extremes/point?"+pointQuery(loc, start, end))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			Time   string  `json:"time"`
			Height float64 `json:"height"`
			Type   string  `json:"type"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding extremes response: %w", err)
	}

	extremes := make([]models.TideExtreme, 0, len(resp.Data))
	for _, e := range resp.Data {
		ts, err := time.Parse(time.RFC3339, e.Time)
		if err != nil {
			return nil, fmt.Errorf("parsing extreme time %q: %w", e.Time, err)
		}

		kind := models.TideLow
		if strings.EqualFold(e.Type, "high") {
			kind = models.TideHigh
		}

		extremes = append(extremes, models.TideExtreme{
			Timestamp: ts.UTC(),
			Height:    e.Height,
			Kind:      kind,
		})
	}
	return extremes, nil
}

func (c *RemoteClient) fetchSeaLevel(ctx context.Context, loc models.Location, start, end time.Time) ([]models.TideSample, error) {
	body, err := c.get(ctx, "/tide/sea-level/point?"+pointQuery(loc, start, end))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			Time string  `json:"time"`
			Sg   float64 `json:"sg"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding sea level response: %w", err)
	}

	samples := make([]models.TideSample, 0, len(resp.Data))
	for _, s := range resp.Data {
		ts, err := time.Parse(time.RFC3339, s.Time)
		if err != nil {
			return nil, fmt.Errorf("parsing sample time %q: %w", s.Time, err)
		}
		samples = append(samples, models.TideSample{
			Timestamp: ts.UTC(),
			Height:    s.Sg,
		})
	}
	return samples, nil
}

// get issues the request with the retry policy applied. Auth and quota
// statuses fail fast so the orchestrator can fall back without burning
// the retry budget on calls that cannot succeed.
func (c *RemoteClient) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<(attempt-1)) * c.backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Get(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			log.Debug().Err(err).Int("attempt", attempt+1).Msg("Remote tide request failed")
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case resp.StatusCode == http.StatusUnauthorized,
			resp.StatusCode == http.StatusPaymentRequired,
			resp.StatusCode == http.StatusForbidden,
			resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("remote returned status %d", resp.StatusCode)
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("remote returned status %d", resp.StatusCode)
			log.Debug().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("Remote tide request failed")
		default:
			return nil, fmt.Errorf("remote returned status %d", resp.StatusCode)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.maxRetries, lastErr)
}
