package calc

import "math"

// Threshold slider ranges. Values snap to the 0.1 step and clamp to range,
// matching the UI controls.
const (
	zscoreMin, zscoreMax = 1.0, 5.0
	iqrMin, iqrMax       = 0.5, 3.0
	madMin, madMax       = 1.0, 5.0
	thresholdStep        = 0.1
)

// Thresholds holds the three independent detection parameters, read at
// request time and mutated only by direct slider input.
type Thresholds struct {
	ZScore float64 `json:"zscore"`
	IQR    float64 `json:"iqr"`
	MAD    float64 `json:"mad"`
}

// DefaultThresholds returns the slider defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{ZScore: 3.0, IQR: 1.5, MAD: 3.5}
}

func snap(v, min, max float64) float64 {
	if math.IsNaN(v) {
		return min
	}
	v = math.Round(v/thresholdStep) * thresholdStep
	// Round again to kill float drift from the division.
	v = math.Round(v*10) / 10
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// SetZScore applies slider input for the Z-score cutoff.
func (t *Thresholds) SetZScore(v float64) { t.ZScore = snap(v, zscoreMin, zscoreMax) }

// SetIQR applies slider input for the IQR multiplier.
func (t *Thresholds) SetIQR(v float64) { t.IQR = snap(v, iqrMin, iqrMax) }

// SetMAD applies slider input for the modified z-score cutoff.
func (t *Thresholds) SetMAD(v float64) { t.MAD = snap(v, madMin, madMax) }

// Normalized returns a copy with every parameter snapped into range, for
// payloads that arrived from outside the sliders.
func (t Thresholds) Normalized() Thresholds {
	return Thresholds{
		ZScore: snap(t.ZScore, zscoreMin, zscoreMax),
		IQR:    snap(t.IQR, iqrMin, iqrMax),
		MAD:    snap(t.MAD, madMin, madMax),
	}
}
