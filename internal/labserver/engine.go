package labserver

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"outlierlab/domain/calc"
	"outlierlab/domain/table"
)

// madScale converts a median absolute deviation into a modified z-score
// denominator, the usual consistency constant for normal data.
const madScale = 0.6745

// Pair is one valid measurement row.
type Pair struct {
	No   int     `json:"No."`
	Size float64 `json:"size"`
	PI   float64 `json:"pi"`
}

// Detection is one full detection run: the wire-level result plus the
// per-method cleaned series kept server-side for the CSV exports.
type Detection struct {
	Result   calc.Result
	Original []Pair
	Cleaned  map[string][]Pair
}

// Detect runs all three outlier methods over the dataset's valid rows.
// Outliers are judged on the size dimension only; a row counts as valid when
// both size and PI parsed. Zero spread means no outliers for that method.
func Detect(d *table.Dataset, t calc.Thresholds) (*Detection, error) {
	sizes, pis := d.ValidPairs()
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no valid measurement rows to analyze")
	}

	pairs := make([]Pair, len(sizes))
	for i := range sizes {
		pairs[i] = Pair{No: i + 1, Size: sizes[i], PI: pis[i]}
	}

	byZ := zscoreMask(sizes, t.ZScore)
	byIQR := iqrMask(sizes, t.IQR)
	byMAD := madMask(sizes, t.MAD)

	detection := &Detection{
		Result: calc.Result{
			OriginalCount: len(pairs),
			ZScore:        summarize(pairs, byZ, t.ZScore),
			IQR:           summarize(pairs, byIQR, t.IQR),
			MAD:           summarize(pairs, byMAD, t.MAD),
		},
		Original: pairs,
		Cleaned: map[string][]Pair{
			"zscore": keep(pairs, byZ),
			"iqr":    keep(pairs, byIQR),
			"mad":    keep(pairs, byMAD),
		},
	}
	return detection, nil
}

// zscoreMask flags values whose absolute z-score meets the threshold,
// against the population standard deviation.
func zscoreMask(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))
	mean, _ := stats.Mean(values)
	sigma, err := stats.StandardDeviationPopulation(values)
	if err != nil || sigma == 0 {
		return mask
	}
	for i, v := range values {
		mask[i] = math.Abs((v-mean)/sigma) >= threshold
	}
	return mask
}

// iqrMask flags values outside [Q1 - t*IQR, Q3 + t*IQR].
func iqrMask(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))
	q1, err1 := stats.Percentile(values, 25)
	q3, err2 := stats.Percentile(values, 75)
	if err1 != nil || err2 != nil {
		return mask
	}
	iqr := q3 - q1
	lower, upper := q1-threshold*iqr, q3+threshold*iqr
	for i, v := range values {
		mask[i] = v < lower || v > upper
	}
	return mask
}

// madMask flags values whose modified z-score exceeds the threshold. A zero
// MAD (half or more of the values identical) yields no outliers.
func madMask(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))
	median, err := stats.Median(values)
	if err != nil {
		return mask
	}
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - median)
	}
	mad, err := stats.Median(deviations)
	if err != nil || mad == 0 {
		return mask
	}
	for i, v := range values {
		mask[i] = math.Abs(madScale*(v-median)/mad) > threshold
	}
	return mask
}

// keep renumbers the rows that survived a mask.
func keep(pairs []Pair, mask []bool) []Pair {
	var out []Pair
	for i, p := range pairs {
		if !mask[i] {
			p.No = len(out) + 1
			out = append(out, p)
		}
	}
	return out
}

// summarize computes one method's cleaned statistics. Standard deviations
// are sample deviations; with fewer than two survivors they report as zero.
func summarize(pairs []Pair, mask []bool, threshold float64) calc.MethodSummary {
	cleaned := keep(pairs, mask)
	sizes := make([]float64, len(cleaned))
	pis := make([]float64, len(cleaned))
	for i, p := range cleaned {
		sizes[i] = p.Size
		pis[i] = p.PI
	}

	summary := calc.MethodSummary{
		Threshold:     threshold,
		Count:         len(cleaned),
		OutliersCount: len(pairs) - len(cleaned),
	}
	summary.SizeMean, _ = stats.Mean(sizes)
	summary.PIMean, _ = stats.Mean(pis)
	if len(cleaned) >= 2 {
		summary.SizeStd, _ = stats.StandardDeviationSample(sizes)
		summary.PIStd, _ = stats.StandardDeviationSample(pis)
	}
	return summary
}
