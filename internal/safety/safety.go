// Package safety evaluates marine conditions against configurable
// thresholds to classify them as safe, caution, or unsafe.
package safety

import (
	"fmt"
)

type Level string

const (
	LevelSafe    Level = "safe"
	LevelCaution Level = "caution"
	LevelUnsafe  Level = "unsafe"
)

// Bounds holds the safe and caution thresholds for one metric. For
// lower-is-better metrics a value at or below Safe is safe and at or
// below Caution is marginal; swell period inverts the comparison.
type Bounds struct {
	Safe    float64
	Caution float64
}

type Thresholds struct {
	WindSpeedKt  Bounds
	WaveHeightM  Bounds
	SwellHeightM Bounds
	SwellPeriodS Bounds
	WindGustKt   Bounds
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		WindSpeedKt:  Bounds{Safe: 10, Caution: 15},
		WaveHeightM:  Bounds{Safe: 0.5, Caution: 1.0},
		SwellHeightM: Bounds{Safe: 1.0, Caution: 1.5},
		SwellPeriodS: Bounds{Safe: 10, Caution: 7}, // higher is better
		WindGustKt:   Bounds{Safe: 15, Caution: 20},
	}
}

// Conditions are the inputs to an assessment. Optional metrics are
// pointers; nil means not measured and the factor is skipped.
type Conditions struct {
	WindSpeedKt  float64
	WaveHeightM  float64
	SwellHeightM *float64
	SwellPeriodS *float64
	WindGustKt   *float64
}

type Factor struct {
	Value   float64 `json:"value"`
	Status  Level   `json:"status"`
	Message string  `json:"message"`
	Unit    string  `json:"unit"`
}

type Assessment struct {
	Overall        Level             `json:"overall"`
	Factors        map[string]Factor `json:"factors"`
	LimitingFactor string            `json:"limitingFactor,omitempty"`
	Details        string            `json:"details"`
}

type Assessor struct {
	thresholds Thresholds
}

func NewAssessor(thresholds Thresholds) *Assessor {
	return &Assessor{thresholds: thresholds}
}

// factorOrder fixes the priority used when several factors share the most
// restrictive level.
var factorOrder = []string{"wind", "waves", "swell", "swell_period", "gusts"}

// Assess classifies the conditions. Overall is worst-case across factors.
func (a *Assessor) Assess(c Conditions) Assessment {
	factors := map[string]Factor{
		"wind":  assessMetric(c.WindSpeedKt, a.thresholds.WindSpeedKt, true, "kt"),
		"waves": assessMetric(c.WaveHeightM, a.thresholds.WaveHeightM, true, "m"),
	}
	if c.SwellHeightM != nil {
		factors["swell"] = assessMetric(*c.SwellHeightM, a.thresholds.SwellHeightM, true, "m")
	}
	if c.SwellPeriodS != nil {
		factors["swell_period"] = assessMetric(*c.SwellPeriodS, a.thresholds.SwellPeriodS, false, "s")
	}
	if c.WindGustKt != nil {
		factors["gusts"] = assessMetric(*c.WindGustKt, a.thresholds.WindGustKt, true, "kt")
	}

	overall := overallLevel(factors)
	limiting := limitingFactor(factors)

	return Assessment{
		Overall:        overall,
		Factors:        factors,
		LimitingFactor: limiting,
		Details:        details(overall, factors, limiting),
	}
}

func assessMetric(value float64, b Bounds, lowerIsBetter bool, unit string) Factor {
	var status Level
	var message string

	if lowerIsBetter {
		switch {
		case value <= b.Safe:
			status = LevelSafe
			message = fmt.Sprintf("Excellent - well below %g%s", b.Safe, unit)
		case value <= b.Caution:
			status = LevelCaution
			message = fmt.Sprintf("Moderate - between %g-%g%s", b.Safe, b.Caution, unit)
		default:
			status = LevelUnsafe
			message = fmt.Sprintf("High - exceeds %g%s", b.Caution, unit)
		}
	} else {
		switch {
		case value >= b.Safe:
			status = LevelSafe
			message = fmt.Sprintf("Excellent - above %g%s", b.Safe, unit)
		case value >= b.Caution:
			status = LevelCaution
			message = fmt.Sprintf("Moderate - between %g-%g%s", b.Caution, b.Safe, unit)
		default:
			status = LevelUnsafe
			message = fmt.Sprintf("Low - below %g%s", b.Caution, unit)
		}
	}

	return Factor{Value: value, Status: status, Message: message, Unit: unit}
}

func overallLevel(factors map[string]Factor) Level {
	overall := LevelSafe
	for _, f := range factors {
		if f.Status == LevelUnsafe {
			return LevelUnsafe
		}
		if f.Status == LevelCaution {
			overall = LevelCaution
		}
	}
	return overall
}

func limitingFactor(factors map[string]Factor) string {
	for _, level := range []Level{LevelUnsafe, LevelCaution} {
		for _, name := range factorOrder {
			if f, ok := factors[name]; ok && f.Status == level {
				return name
			}
		}
	}
	return ""
}

func details(overall Level, factors map[string]Factor, limiting string) string {
	switch overall {
	case LevelSafe:
		return "All conditions are within safe limits."
	case LevelCaution:
		if limiting != "" {
			f := factors[limiting]
			return fmt.Sprintf("Caution advised due to %s: %g%s - %s", limiting, f.Value, f.Unit, f.Message)
		}
		return "Caution advised - some conditions are marginal."
	default:
		if limiting != "" {
			f := factors[limiting]
			return fmt.Sprintf("Unsafe conditions - %s: %g%s - %s", limiting, f.Value, f.Unit, f.Message)
		}
		return "Unsafe conditions detected."
	}
}
