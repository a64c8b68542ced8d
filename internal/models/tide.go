package models

import (
	"time"
)

// TideSource tags which path produced a forecast, so downstream display
// can distinguish station data from the offline approximation.
type TideSource string

const (
	// SourceAPI marks forecasts built from the remote station service.
	SourceAPI TideSource = "API"
	// SourceHarmonic marks forecasts computed offline from the harmonic model.
	SourceHarmonic TideSource = "HARMONIC"
)

type TideKind string

const (
	TideHigh TideKind = "HIGH"
	TideLow  TideKind = "LOW"
)

// TideSample is one instantaneous height reading. Timestamps are always UTC.
type TideSample struct {
	Timestamp time.Time `json:"timestamp"`
	Height    float64   `json:"height"`
}

// TideExtreme is a high or low tide event.
type TideExtreme struct {
	Timestamp time.Time `json:"timestamp"`
	Height    float64   `json:"height"`
	Kind      TideKind  `json:"kind"`
}

// TideForecast is the full prediction for a location and window. It is
// never mutated after creation; the cache holds a shared immutable copy.
type TideForecast struct {
	Extremes      []TideExtreme `json:"extremes"`
	HourlySamples []TideSample  `json:"hourlySamples"`
	Source        TideSource    `json:"source"`
	GeneratedAt   time.Time     `json:"generatedAt"`
}

// NextExtreme returns the first extreme of the given kind after now,
// or nil if the window holds none.
func (f *TideForecast) NextExtreme(now time.Time, kind TideKind) *TideExtreme {
	for i := range f.Extremes {
		e := f.Extremes[i]
		if e.Kind == kind && e.Timestamp.After(now) {
			return &e
		}
	}
	return nil
}

// CurrentHeight interpolates the tide height at now from the hourly samples
// and reports whether the tide is rising. rising is nil when now falls
// outside the sampled window and only the closest sample is available.
// ok is false when the forecast carries no samples at all.
func (f *TideForecast) CurrentHeight(now time.Time) (height float64, rising *bool, ok bool) {
	if len(f.HourlySamples) == 0 {
		return 0, nil, false
	}

	var before, after *TideSample
	for i := range f.HourlySamples {
		s := &f.HourlySamples[i]
		if !s.Timestamp.After(now) {
			before = s
		} else {
			after = s
			break
		}
	}

	if before == nil || after == nil {
		closest := f.HourlySamples[0]
		for _, s := range f.HourlySamples[1:] {
			if absDuration(s.Timestamp.Sub(now)) < absDuration(closest.Timestamp.Sub(now)) {
				closest = s
			}
		}
		return closest.Height, nil, true
	}

	span := after.Timestamp.Sub(before.Timestamp).Seconds()
	fraction := 0.0
	if span > 0 {
		fraction = now.Sub(before.Timestamp).Seconds() / span
	}
	height = before.Height + (after.Height-before.Height)*fraction

	r := after.Height > before.Height
	return height, &r, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
