// Package calc carries the detection-run payloads exchanged with the
// statistical engine: per-method summaries, trend and correlation reports,
// and the opaque chart specifications attached to them.
package calc

import "encoding/json"

// ChartSpec is a serialized plot description produced by the engine and
// passed through to the charting layer unmodified. The client never
// interprets it.
type ChartSpec string

// Decode parses the chart description for a consumer that does want the
// raw structure, such as a view asserting the payload is well-formed.
func (c ChartSpec) Decode() (map[string]interface{}, error) {
	if c == "" {
		return nil, nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(c), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MethodSummary is one outlier-removal method's cleaned statistics.
type MethodSummary struct {
	Threshold     float64 `json:"threshold"`
	Count         int     `json:"count"`
	OutliersCount int     `json:"outliers_count"`
	SizeMean      float64 `json:"size_mean"`
	SizeStd       float64 `json:"size_std"`
	PIMean        float64 `json:"pi_mean"`
	PIStd         float64 `json:"pi_std"`
}

// Result is one full detection response. The client caches the most recent
// one wholesale as the source for add-from-result actions and plot redraws;
// it is never partially updated.
type Result struct {
	OriginalCount  int           `json:"original_count"`
	SampleName     string        `json:"sample_name"`
	ProductionDate string        `json:"production_date"`
	PassCount      int           `json:"pass_count"`
	ZScore         MethodSummary `json:"zscore"`
	IQR            MethodSummary `json:"iqr"`
	MAD            MethodSummary `json:"mad"`
	ScatterPlot    ChartSpec     `json:"scatter_plot"`
}

// TrendStatistics summarizes the pass-average series.
type TrendStatistics struct {
	PassCount   int     `json:"pass_count"`
	Correlation float64 `json:"correlation"`
	SizeCV      float64 `json:"size_cv"`
	PICV        float64 `json:"pi_cv"`
}

// TrendReport is the pass trend analysis payload.
type TrendReport struct {
	Statistics       TrendStatistics `json:"statistics"`
	SizeTrendChart   ChartSpec       `json:"size_trend_chart"`
	PITrendChart     ChartSpec       `json:"pi_trend_chart"`
	CorrelationChart ChartSpec       `json:"correlation_chart"`
}

// CorrelationStatistics summarizes custom-field correlation over both groups.
type CorrelationStatistics struct {
	DataCount         int     `json:"data_count,omitempty"`
	ExperimentalCount int     `json:"experimental_count,omitempty"`
	ControlCount      int     `json:"control_count,omitempty"`
	TotalCount        int     `json:"total_count,omitempty"`
	Correlation       float64 `json:"correlation"`
	CustomMean        float64 `json:"custom_mean"`
	SizeMean          float64 `json:"size_mean"`
}

// CorrelationReport is the custom-field correlation payload.
type CorrelationReport struct {
	CustomFieldName string                `json:"custom_field_name"`
	Statistics      CorrelationStatistics `json:"statistics"`
	Chart           ChartSpec             `json:"custom_correlation_chart"`
}

// DatasetStats is one saved dataset's summary inside a comparison.
type DatasetStats struct {
	Count    int     `json:"count"`
	SizeMean float64 `json:"size_mean"`
	SizeStd  float64 `json:"size_std"`
	PIMean   float64 `json:"pi_mean"`
	PIStd    float64 `json:"pi_std"`
}

// ComparisonReport is the saved-dataset comparison payload.
type ComparisonReport struct {
	StatsSummary   map[string]DatasetStats `json:"stats_summary"`
	ComparisonPlot ChartSpec               `json:"comparison_plot"`
}
