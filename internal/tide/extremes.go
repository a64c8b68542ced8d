package tide

import (
	"time"

	"github.com/driftmarine/tidecast/internal/models"
)

// FindExtremes scans a sampled curve for strict local maxima and minima
// and returns them as alternating HIGH/LOW events. A monotonic curve
// yields an empty result; no extreme is ever fabricated at the window
// boundaries.
//
// When heightAt is non-nil it is taken as the continuous height function
// behind the samples, and each extreme's time is refined to minute
// precision between its bracketing samples.
//
// Adjacent samples with exactly equal heights resolve to the earlier
// timestamp.
func FindExtremes(samples []models.TideSample, heightAt func(time.Time) float64) []models.TideExtreme {
	var extremes []models.TideExtreme

	n := len(samples)
	for i := 1; i < n-1; i++ {
		prev := samples[i-1].Height
		cur := samples[i].Height

		// Skip forward over an exact plateau so the earlier sample wins.
		j := i + 1
		for j < n-1 && samples[j].Height == cur {
			j++
		}
		next := samples[j].Height

		var kind models.TideKind
		switch {
		case cur > prev && cur > next:
			kind = models.TideHigh
		case cur < prev && cur < next:
			kind = models.TideLow
		default:
			continue
		}

		ts, height := samples[i].Timestamp, cur
		if heightAt != nil {
			ts, height = refineExtreme(samples[i-1].Timestamp, samples[j].Timestamp, kind, heightAt)
		}

		// Extremes must alternate; if refinement lands two of a kind on one
		// crest, keep the more extreme of the pair.
		if last := len(extremes) - 1; last >= 0 && extremes[last].Kind == kind {
			if (kind == models.TideHigh && height > extremes[last].Height) ||
				(kind == models.TideLow && height < extremes[last].Height) {
				extremes[last] = models.TideExtreme{Timestamp: ts, Height: height, Kind: kind}
			}
			continue
		}

		extremes = append(extremes, models.TideExtreme{Timestamp: ts, Height: height, Kind: kind})
	}

	return extremes
}

// refineExtreme narrows the bracketing interval around a candidate extreme
// with a ternary search on the continuous height function, so reported
// times are accurate to the minute rather than to the sampling step.
func refineExtreme(lo, hi time.Time, kind models.TideKind, heightAt func(time.Time) float64) (time.Time, float64) {
	for hi.Sub(lo) > time.Minute {
		third := hi.Sub(lo) / 3
		m1 := lo.Add(third)
		m2 := hi.Add(-third)

		preferFirst := heightAt(m1) >= heightAt(m2)
		if kind == models.TideLow {
			preferFirst = !preferFirst
		}
		if preferFirst {
			hi = m2
		} else {
			lo = m1
		}
	}

	mid := lo.Add(hi.Sub(lo) / 2).Round(time.Minute).UTC()
	return mid, heightAt(mid)
}
