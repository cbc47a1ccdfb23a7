// Package score computes per-dimension risk contributions from measured
// text statistics and folds them into a composite 0-100 risk score.
package score

// Status classifies a measured value against its two thresholds.
type Status string

const (
	StatusAILike    Status = "ai_like"
	StatusBorderline Status = "borderline"
	StatusHumanLike Status = "human_like"
)

// Level is a coarse risk bucket derived from the composite score.
type Level string

const (
	LevelSafe   Level = "safe"
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Dimension is one named risk contribution. Values are recomputed on
// every call; nothing here is cached.
type Dimension struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	NameZH          string  `json:"name_zh,omitempty"`
	Value           float64 `json:"value"`
	ThresholdAI     float64 `json:"threshold_ai"`
	ThresholdHuman  float64 `json:"threshold_human"`
	Weight          float64 `json:"weight"`
	MaxContribution float64 `json:"max_contribution"`
	HigherIsRiskier bool    `json:"higher_is_riskier"`
	Contribution    float64 `json:"risk_contribution"`
	Status          Status  `json:"status"`
}

// Score computes the risk contribution of one dimension.
//
// When HigherIsRiskier is false (the common case: low variation is
// AI-like), the contribution grows linearly from 0 at thresholdHuman to
// maxContribution at thresholdAI and stays capped beyond it. When true,
// the interpolation direction is reversed.
func Score(id string, value, thresholdAI, thresholdHuman, weight, maxContribution float64, higherIsRiskier bool) Dimension {
	d := Dimension{
		ID:              id,
		Value:           value,
		ThresholdAI:     thresholdAI,
		ThresholdHuman:  thresholdHuman,
		Weight:          weight,
		MaxContribution: maxContribution,
		HigherIsRiskier: higherIsRiskier,
	}

	span := thresholdHuman - thresholdAI
	var t float64
	if higherIsRiskier {
		// Risky direction is upward: thresholdAI sits above thresholdHuman.
		span = thresholdAI - thresholdHuman
		if span <= 0 {
			t = boolToUnit(value >= thresholdAI)
		} else {
			t = (value - thresholdHuman) / span
		}
		d.Status = statusFor(value >= thresholdAI, value <= thresholdHuman)
	} else {
		if span <= 0 {
			t = boolToUnit(value <= thresholdAI)
		} else {
			t = (thresholdHuman - value) / span
		}
		d.Status = statusFor(value <= thresholdAI, value >= thresholdHuman)
	}

	d.Contribution = clamp(t, 0, 1) * maxContribution
	return d
}

// Composite sums dimension contributions and applies human-feature
// deductions. Each deduction is capped at deductionCap points; the
// total never drops below 0 or exceeds 100.
func Composite(dims []Dimension, deductions []float64, deductionCap float64) int {
	total := 0.0
	for _, d := range dims {
		total += d.Contribution
	}
	for _, ded := range deductions {
		if ded < 0 {
			ded = 0
		}
		if deductionCap > 0 && ded > deductionCap {
			ded = deductionCap
		}
		total -= ded
	}
	return int(clamp(total, 0, 100))
}

// LevelFor maps a composite score to its risk bucket:
// safe [0,10), low [10,30), medium [30,60), high [60,100].
func LevelFor(s int) Level {
	switch {
	case s < 10:
		return LevelSafe
	case s < 30:
		return LevelLow
	case s < 60:
		return LevelMedium
	default:
		return LevelHigh
	}
}

func statusFor(aiLike, humanLike bool) Status {
	switch {
	case aiLike:
		return StatusAILike
	case humanLike:
		return StatusHumanLike
	default:
		return StatusBorderline
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func boolToUnit(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
