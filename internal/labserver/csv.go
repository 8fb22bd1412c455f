package labserver

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"outlierlab/domain/calc"
	"outlierlab/domain/table"
)

// utf8BOM keeps spreadsheet applications from misreading non-ASCII sample
// names in the exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func csvTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func csvFilename(prefix, sampleName string) string {
	if sampleName == "" {
		sampleName = "sample"
	}
	return fmt.Sprintf("%s_%s_%s.csv", prefix, sampleName, time.Now().Format("20060102_150405"))
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// writePairs appends one measurement block with its header row.
func writePairs(w *csv.Writer, pairs []Pair) {
	w.Write([]string{table.ColumnNo, table.ColumnSize, table.ColumnPI})
	for _, p := range pairs {
		w.Write([]string{
			strconv.Itoa(p.No),
			strconv.FormatFloat(p.Size, 'f', -1, 64),
			strconv.FormatFloat(p.PI, 'f', -1, 64),
		})
	}
}

// resultCSV renders the full per-method export of one detection run: the
// original data block followed by each method's summary and cleaned rows.
func resultCSV(detection *Detection, sampleName string) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	w.Write([]string{"Sample", sampleName})
	w.Write([]string{"Generated", csvTimestamp()})
	w.Write(nil)

	w.Write([]string{"=== Original Data ==="})
	w.Write([]string{"Rows", strconv.Itoa(detection.Result.OriginalCount)})
	writePairs(w, detection.Original)
	w.Write(nil)

	for _, method := range []struct {
		key     string
		label   string
		summary calc.MethodSummary
	}{
		{"zscore", "Z-Score", detection.Result.ZScore},
		{"iqr", "IQR", detection.Result.IQR},
		{"mad", "MAD", detection.Result.MAD},
	} {
		w.Write([]string{fmt.Sprintf("=== %s Outlier Removal ===", method.label)})
		w.Write([]string{"Rows kept", strconv.Itoa(method.summary.Count)})
		w.Write([]string{"Size(nm) mean", formatNum(method.summary.SizeMean)})
		w.Write([]string{"Size(nm) std", formatNum(method.summary.SizeStd)})
		w.Write([]string{"PI mean", formatNum(method.summary.PIMean)})
		w.Write([]string{"PI std", formatNum(method.summary.PIStd)})
		writePairs(w, detection.Cleaned[method.key])
		w.Write(nil)
	}

	w.Flush()
	return buf.Bytes()
}

// combinedCSV renders the side-by-side method summary of one detection run.
func combinedCSV(detection *Detection, sampleName string) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	w.Write([]string{"Sample", sampleName})
	w.Write([]string{"Generated", csvTimestamp()})
	w.Write(nil)

	w.Write([]string{"Method", "Threshold", "Rows kept", "Outliers", "Size(nm) mean", "Size(nm) std", "PI mean", "PI std"})
	for _, row := range []struct {
		label   string
		summary calc.MethodSummary
	}{
		{"Z-Score", detection.Result.ZScore},
		{"IQR", detection.Result.IQR},
		{"MAD", detection.Result.MAD},
	} {
		w.Write([]string{
			row.label,
			strconv.FormatFloat(row.summary.Threshold, 'f', -1, 64),
			strconv.Itoa(row.summary.Count),
			strconv.Itoa(row.summary.OutliersCount),
			formatNum(row.summary.SizeMean),
			formatNum(row.summary.SizeStd),
			formatNum(row.summary.PIMean),
			formatNum(row.summary.PIStd),
		})
	}

	w.Flush()
	return buf.Bytes()
}

// tableCSV renders the raw session table, optionally with the metadata
// block on top.
func tableCSV(sess *session, dataOnly bool) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	if !dataOnly {
		w.Write([]string{"Sample", sess.SampleName})
		w.Write([]string{"Production date", sess.ProductionDate})
		w.Write([]string{"Pass count", strconv.Itoa(sess.PassCount)})
		w.Write(nil)
	}

	columns := append([]string{table.ColumnNo}, sess.Table.Columns()...)
	w.Write(columns)
	for row := 0; row < sess.Table.Rows(); row++ {
		record := make([]string, len(columns))
		record[0] = strconv.Itoa(row + 1)
		for i, column := range columns[1:] {
			record[i+1] = sess.Table.Value(column, row).Input()
		}
		w.Write(record)
	}

	w.Flush()
	return buf.Bytes()
}
