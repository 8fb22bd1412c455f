package labserver

import (
	"encoding/json"

	"outlierlab/domain/calc"
	"outlierlab/domain/pass"
)

// Chart specs are serialized {data, layout} documents in the shape the
// client's plotting layer consumes. The client treats them as opaque
// strings, so the exact trace options only matter to the renderer.

func specJSON(data []map[string]interface{}, layout map[string]interface{}) calc.ChartSpec {
	raw, err := json.Marshal(map[string]interface{}{
		"data":   data,
		"layout": layout,
	})
	if err != nil {
		return ""
	}
	return calc.ChartSpec(raw)
}

// scatterSpec plots every valid measurement, one trace per method's
// outliers so the renderer can color them apart.
func scatterSpec(detection *Detection) calc.ChartSpec {
	sizes := make([]float64, len(detection.Original))
	pis := make([]float64, len(detection.Original))
	for i, p := range detection.Original {
		sizes[i] = p.Size
		pis[i] = p.PI
	}
	data := []map[string]interface{}{
		{
			"x":    sizes,
			"y":    pis,
			"mode": "markers",
			"type": "scatter",
			"name": "measurements",
		},
	}
	for _, method := range []string{"zscore", "iqr", "mad"} {
		removed := outliersOf(detection, method)
		if len(removed) == 0 {
			continue
		}
		x := make([]float64, len(removed))
		y := make([]float64, len(removed))
		for i, p := range removed {
			x[i] = p.Size
			y[i] = p.PI
		}
		data = append(data, map[string]interface{}{
			"x":      x,
			"y":      y,
			"mode":   "markers",
			"type":   "scatter",
			"name":   method + " outliers",
			"marker": map[string]interface{}{"symbol": "x", "size": 10},
		})
	}
	layout := map[string]interface{}{
		"title": "Size vs PI",
		"xaxis": map[string]interface{}{"title": "Size(nm)"},
		"yaxis": map[string]interface{}{"title": "PI"},
	}
	return specJSON(data, layout)
}

// outliersOf returns the rows a method removed, by set difference against
// the cleaned series.
func outliersOf(detection *Detection, method string) []Pair {
	kept := make(map[float64]int)
	for _, p := range detection.Cleaned[method] {
		kept[p.Size]++
	}
	var removed []Pair
	for _, p := range detection.Original {
		if kept[p.Size] > 0 {
			kept[p.Size]--
			continue
		}
		removed = append(removed, p)
	}
	return removed
}

// seriesSpec plots one per-record series for the trend panel, one trace per
// group.
func seriesSpec(title, yTitle string, experimental, control []pass.Record, value func(pass.Record) float64) calc.ChartSpec {
	var data []map[string]interface{}
	for _, group := range []struct {
		name    string
		records []pass.Record
	}{
		{"Experimental", experimental},
		{"Control", control},
	} {
		if len(group.records) == 0 {
			continue
		}
		x := make([]string, len(group.records))
		y := make([]float64, len(group.records))
		for i, r := range group.records {
			x[i] = r.SampleName
			y[i] = value(r)
		}
		data = append(data, map[string]interface{}{
			"x":    x,
			"y":    y,
			"mode": "lines+markers",
			"type": "scatter",
			"name": group.name,
		})
	}
	layout := map[string]interface{}{
		"title": title,
		"yaxis": map[string]interface{}{"title": yTitle},
	}
	return specJSON(data, layout)
}

// xySpec plots one numeric series against another.
func xySpec(title, xTitle, yTitle string, x, y []float64) calc.ChartSpec {
	data := []map[string]interface{}{
		{
			"x":    x,
			"y":    y,
			"mode": "markers",
			"type": "scatter",
		},
	}
	layout := map[string]interface{}{
		"title": title,
		"xaxis": map[string]interface{}{"title": xTitle},
		"yaxis": map[string]interface{}{"title": yTitle},
	}
	return specJSON(data, layout)
}

// comparisonSpec plots per-dataset mean size with error bars.
func comparisonSpec(names []string, stats map[string]calc.DatasetStats) calc.ChartSpec {
	means := make([]float64, len(names))
	stds := make([]float64, len(names))
	for i, name := range names {
		means[i] = stats[name].SizeMean
		stds[i] = stats[name].SizeStd
	}
	data := []map[string]interface{}{
		{
			"x":       names,
			"y":       means,
			"type":    "bar",
			"error_y": map[string]interface{}{"type": "data", "array": stds},
		},
	}
	layout := map[string]interface{}{
		"title": "Dataset comparison",
		"yaxis": map[string]interface{}{"title": "Size(nm) mean"},
	}
	return specJSON(data, layout)
}
