package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	remoteRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: "tidecast",
			Name:      "remote_requests_total",
			Help:      "Attempts against the remote tide service.",
		},
	)
	remoteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: "tidecast",
			Name:      "remote_failures_total",
			Help:      "Remote tide service calls that failed and triggered fallback.",
		},
	)
	harmonicForecasts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: "tidecast",
			Name:      "harmonic_forecasts_total",
			Help:      "Forecasts computed by the offline harmonic model.",
		},
	)
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "tidecast",
			Name:      "cache_hits_total",
			Help:      "Cache hits by tier.",
		},
		[]string{"tier"},
	)
	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "tidecast",
			Name:      "cache_misses_total",
			Help:      "Cache misses by tier.",
		},
		[]string{"tier"},
	)
	cacheErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "tidecast",
			Name:      "cache_errors_total",
			Help:      "Cache tier failures absorbed by degradation.",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		remoteRequests,
		remoteFailures,
		harmonicForecasts,
		cacheHits,
		cacheMisses,
		cacheErrors,
	)
}

func IncRemoteRequest()    { remoteRequests.Inc() }
func IncRemoteFailure()    { remoteFailures.Inc() }
func IncHarmonicForecast() { harmonicForecasts.Inc() }

func IncCacheHit(tier string)   { cacheHits.WithLabelValues(tier).Inc() }
func IncCacheMiss(tier string)  { cacheMisses.WithLabelValues(tier).Inc() }
func IncCacheError(tier string) { cacheErrors.WithLabelValues(tier).Inc() }
