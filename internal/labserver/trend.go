package labserver

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"outlierlab/domain/calc"
	"outlierlab/domain/pass"
)

// trendReport builds the pass trend analysis over the session's records.
// Correlation is the Pearson coefficient between the size and PI series of
// the experimental group; the variation coefficients are percentages.
func trendReport(experimental, control []pass.Record) (*calc.TrendReport, error) {
	if len(experimental) == 0 && len(control) == 0 {
		return nil, fmt.Errorf("no pass averages recorded yet")
	}

	series := experimental
	if len(series) == 0 {
		series = control
	}
	sizes := make([]float64, len(series))
	pis := make([]float64, len(series))
	for i, r := range series {
		sizes[i] = r.SizeAvg
		pis[i] = r.PIAvg
	}

	report := &calc.TrendReport{
		Statistics: calc.TrendStatistics{
			PassCount:   len(series),
			Correlation: correlation(sizes, pis),
			SizeCV:      variationCoefficient(sizes),
			PICV:        variationCoefficient(pis),
		},
		SizeTrendChart: seriesSpec("Size(nm) by pass", "Size(nm)", experimental, control,
			func(r pass.Record) float64 { return r.SizeAvg }),
		PITrendChart: seriesSpec("PI by pass", "PI", experimental, control,
			func(r pass.Record) float64 { return r.PIAvg }),
		CorrelationChart: xySpec("Size vs PI across passes", "Size(nm)", "PI", sizes, pis),
	}
	return report, nil
}

// correlationReport builds the custom-field analysis over every record in
// either group that carries the custom value.
func correlationReport(fieldName string, experimental, control []pass.Record) (*calc.CorrelationReport, error) {
	var customs, sizes []float64
	expCount, ctrlCount := 0, 0
	for _, r := range experimental {
		if r.CustomValue != nil {
			customs = append(customs, *r.CustomValue)
			sizes = append(sizes, r.SizeAvg)
			expCount++
		}
	}
	for _, r := range control {
		if r.CustomValue != nil {
			customs = append(customs, *r.CustomValue)
			sizes = append(sizes, r.SizeAvg)
			ctrlCount++
		}
	}
	if len(customs) == 0 {
		return nil, fmt.Errorf("no custom data recorded yet")
	}

	name := fieldName
	if name == "" {
		name = "Custom"
	}
	report := &calc.CorrelationReport{
		CustomFieldName: name,
		Statistics: calc.CorrelationStatistics{
			ExperimentalCount: expCount,
			ControlCount:      ctrlCount,
			TotalCount:        len(customs),
			Correlation:       correlation(customs, sizes),
			CustomMean:        stat.Mean(customs, nil),
			SizeMean:          stat.Mean(sizes, nil),
		},
		Chart: xySpec(name+" vs Size(nm)", name, "Size(nm)", customs, sizes),
	}
	return report, nil
}

// correlation is the Pearson coefficient, zero when either series has no
// spread or too few points.
func correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if r != r { // NaN from zero variance
		return 0
	}
	return r
}

// variationCoefficient is the sample standard deviation as a percentage of
// the mean.
func variationCoefficient(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := stat.Mean(values, nil)
	if mean == 0 {
		return 0
	}
	return stat.StdDev(values, nil) / mean * 100
}
