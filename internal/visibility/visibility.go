// Package visibility estimates underwater visibility from surface
// conditions. There is no direct measurement; the estimate averages
// per-indicator scores and reports a confidence based on how much data
// was available.
package visibility

import "fmt"

type Rating string

const (
	RatingGood  Rating = "good"
	RatingMixed Rating = "mixed"
	RatingPoor  Rating = "poor"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Inputs are the surface indicators. TurbidityNTU is the strongest
// signal when present; nil means no turbidity reading was available.
type Inputs struct {
	TurbidityNTU *float64
	RainfallMM   float64
	WindSpeedKt  float64
	SwellHeightM float64
}

type Estimate struct {
	Rating     Rating     `json:"rating"`
	RangeM     string     `json:"rangeMeters"`
	Confidence Confidence `json:"confidence"`
	Notes      []string   `json:"notes,omitempty"`
}

// Indicator score bands. 3 is favorable, 1 is unfavorable.
const (
	scoreGood = 3.0
	scoreFair = 2.0
	scorePoor = 1.0
)

// Estimate scores each available indicator 1-3 and maps the average to a
// rating with an expected range in meters.
func EstimateVisibility(in Inputs) Estimate {
	var scores []float64
	var notes []string

	if in.TurbidityNTU != nil {
		t := *in.TurbidityNTU
		switch {
		case t <= 2.0:
			scores = append(scores, scoreGood)
		case t <= 5.0:
			scores = append(scores, scoreFair)
		default:
			scores = append(scores, scorePoor)
			notes = append(notes, fmt.Sprintf("High turbidity (%.1f NTU) is reducing visibility", t))
		}
	} else {
		notes = append(notes, "No turbidity data available, estimate based on surface conditions only")
	}

	switch {
	case in.RainfallMM <= 10:
		scores = append(scores, scoreGood)
	case in.RainfallMM <= 50:
		scores = append(scores, scoreFair)
		notes = append(notes, "Recent rainfall may have washed sediment into the water")
	default:
		scores = append(scores, scorePoor)
		notes = append(notes, "Heavy rainfall runoff is likely clouding the water")
	}

	switch {
	case in.WindSpeedKt <= 8:
		scores = append(scores, scoreGood)
	case in.WindSpeedKt <= 15:
		scores = append(scores, scoreFair)
	default:
		scores = append(scores, scorePoor)
		notes = append(notes, "Strong wind is stirring up the water column")
	}

	switch {
	case in.SwellHeightM <= 0.5:
		scores = append(scores, scoreGood)
	case in.SwellHeightM <= 1.5:
		scores = append(scores, scoreFair)
	default:
		scores = append(scores, scorePoor)
		notes = append(notes, "Large swell is suspending sediment near the bottom")
	}

	avg := 0.0
	for _, s := range scores {
		avg += s
	}
	avg /= float64(len(scores))

	var rating Rating
	var rangeM string
	switch {
	case avg >= 2.5:
		rating = RatingGood
		rangeM = "20-30m"
	case avg >= 1.5:
		rating = RatingMixed
		rangeM = "10-20m"
	default:
		rating = RatingPoor
		rangeM = "<10m"
	}

	return Estimate{
		Rating:     rating,
		RangeM:     rangeM,
		Confidence: confidence(in.TurbidityNTU != nil, rating),
		Notes:      notes,
	}
}

// confidence is high only when turbidity backs the estimate. A poor
// rating inferred without turbidity still gets medium confidence since
// surface indicators agree on degradation.
func confidence(hasTurbidity bool, rating Rating) Confidence {
	switch {
	case hasTurbidity:
		return ConfidenceHigh
	case rating == RatingPoor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
