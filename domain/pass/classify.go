package pass

import (
	"math"
	"strconv"
)

// MatchTolerance is the per-dimension cutoff for recognizing a submitted
// average as the output of a cached detection method. The UI allows free-text
// editing of values that started out as detection results, so a hand-edited
// value must not keep an automated method's tag.
const MatchTolerance = 0.0005

// MethodResult is one cached detection outcome used for classification.
type MethodResult struct {
	Method    Method
	Threshold float64
	SizeMean  float64
	PIMean    float64
}

// ClassifyMethod decides the removal-method tag for a record about to be
// committed. If the submitted size and PI averages both sit within
// MatchTolerance of exactly one best-matching cached result, that method's
// name and threshold are attached; otherwise the caller's chosen tag (by
// default Manual with threshold N/A) is used unmodified.
func ClassifyMethod(sizeAvg, piAvg float64, cached []MethodResult, chosen Method, chosenThreshold string) (Method, string) {
	best := -1
	bestDiff := math.MaxFloat64
	for i, result := range cached {
		sizeDiff := math.Abs(sizeAvg - result.SizeMean)
		piDiff := math.Abs(piAvg - result.PIMean)
		if sizeDiff >= MatchTolerance || piDiff >= MatchTolerance {
			continue
		}
		if diff := sizeDiff + piDiff; diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 {
		if chosen == "" {
			chosen = MethodManual
		}
		if chosenThreshold == "" {
			chosenThreshold = ThresholdNA
		}
		return chosen, chosenThreshold
	}
	match := cached[best]
	return match.Method, strconv.FormatFloat(match.Threshold, 'f', -1, 64)
}
