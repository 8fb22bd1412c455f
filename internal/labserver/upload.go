package labserver

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"outlierlab/domain/core"
	"outlierlab/domain/table"
)

// parseSpreadsheet reads the first sheet of an uploaded workbook: a header
// row followed by data rows. Headers are matched onto the fixed measurement
// columns by keyword; unmatched headers become user columns. The returned
// mapping records where each spreadsheet header ended up.
func parseSpreadsheet(r io.Reader) (*table.Dataset, map[string]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("spreadsheet has no data rows")
	}

	header := rows[0]
	targets := make([]string, len(header))
	mapped := make(map[string]string, len(header))
	dataset := table.NewWithRows(len(rows) - 1)
	for i, name := range header {
		target := mapHeader(name)
		targets[i] = target
		if strings.TrimSpace(name) == "" {
			continue
		}
		mapped[strings.TrimSpace(name)] = target
		if target != "" && target != table.ColumnSize && target != table.ColumnPI {
			// User column; duplicates collapse onto the first occurrence.
			dataset.AddColumn(target)
		}
	}

	for rowIdx, row := range rows[1:] {
		for colIdx, cell := range row {
			if colIdx >= len(targets) || targets[colIdx] == "" {
				continue
			}
			dataset.SetValue(targets[colIdx], rowIdx, core.Coerce(cell))
		}
	}
	return dataset, mapped, nil
}

// mapHeader decides where one spreadsheet header lands: the size column,
// the PI column, a user column under its own name, or nowhere (row-number
// headers are dropped since numbering is positional).
func mapHeader(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "" || n == "no" || n == "no." || n == "#" || n == "index":
		return ""
	case strings.Contains(n, "size") || strings.Contains(n, "diameter") || strings.Contains(n, "nm"):
		return table.ColumnSize
	case n == "pi" || n == "pdi" || strings.Contains(n, "polydispersity"):
		return table.ColumnPI
	}
	return strings.TrimSpace(name)
}
