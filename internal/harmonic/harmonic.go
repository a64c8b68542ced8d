// Package harmonic synthesizes tide heights from astronomical constituents
// alone, providing the always-available offline prediction path.
package harmonic

import (
	"math"
	"time"

	"github.com/driftmarine/tidecast/internal/models"
)

// bandScale returns the latitude-band amplitude multiplier and mean sea
// level. Tropical basins tend to see larger ranges than polar ones; the
// exact numbers are an approximation, not station-calibrated values.
func bandScale(lat float64) (scale, msl float64) {
	switch abs := math.Abs(lat); {
	case abs < 30:
		return 1.2, 1.5
	case abs < 60:
		return 1.0, 1.0
	default:
		return 0.7, 0.5
	}
}

// HeightAt computes the instantaneous tide height in meters at the given
// location and time. The computation is deterministic: identical inputs
// always produce identical output.
func HeightAt(loc models.Location, t time.Time) (float64, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}
	return heightAt(loc, t), nil
}

// ContinuousHeight returns the height function for a validated location,
// suitable for repeated evaluation (curve synthesis, extremum refinement).
func ContinuousHeight(loc models.Location) (func(time.Time) float64, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return func(t time.Time) float64 {
		return heightAt(loc, t)
	}, nil
}

// height(t) = MSL(lat) + sum over constituents of
// A_i * scale(lat) * cos(speed_i * hoursSinceEpoch(t) - phase_i(lng))
func heightAt(loc models.Location, t time.Time) float64 {
	scale, msl := bandScale(loc.Latitude)
	lng := loc.NormalizedLongitude()
	hours := float64(t.UTC().Unix()) / 3600.0

	height := msl
	for _, c := range Constituents {
		phase := deg2rad(mod360(c.PhaseRate*(lng/15.0) + c.PhaseOffset))
		height += c.Amplitude * scale * math.Cos(deg2rad(c.Speed)*hours-phase)
	}
	return height
}

// SynthesizeCurve samples the height function from start through end
// inclusive at the given step. A zero-length window yields exactly one
// sample. All emitted timestamps are UTC.
func SynthesizeCurve(loc models.Location, start, end time.Time, step time.Duration) ([]models.TideSample, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if step <= 0 {
		step = time.Hour
	}

	startUTC := start.UTC()
	endUTC := end.UTC()

	var samples []models.TideSample
	for t := startUTC; !t.After(endUTC); t = t.Add(step) {
		samples = append(samples, models.TideSample{
			Timestamp: t,
			Height:    heightAt(loc, t),
		})
	}
	return samples, nil
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func mod360(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}
