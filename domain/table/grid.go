package table

import "outlierlab/domain/core"

// Cell is one editable grid cell: the raw text content plus the column tag
// attached to its input.
type Cell struct {
	Column string
	Raw    string
}

// Extract rebuilds the canonical dataset from a grid snapshot, walking rows
// top to bottom. Row position alone determines No. (1-based, contiguous,
// prior numbering ignored). The first cell of each row is Size(nm), the
// second PI; later cells are placed by their column tag, and a column first
// seen at row i is backfilled with nulls for the rows above it. Every cell
// passes through numeric coercion.
func Extract(rows [][]Cell) *Dataset {
	d := New()
	for i, row := range rows {
		d.AddRow()
		for j, cell := range row {
			var key string
			switch j {
			case 0:
				key = ColumnSize
			case 1:
				key = ColumnPI
			default:
				if cell.Column == "" {
					continue
				}
				key = d.ensureColumn(cell.Column)
				if key == ColumnNo {
					// Row numbers are positional, never stored.
					continue
				}
			}
			d.values[key][i] = core.Coerce(cell.Raw)
		}
	}
	d.pad()
	return d
}

// RenderPlan flattens a dataset into the full-replacement form a table view
// consumes: the header (No. first, data columns in canonical order, action
// column last) and the body rows, each cell seeded with the stored value or
// left blank for null. The body carries data columns only; row numbers and
// the action cell are the view's own.
func RenderPlan(d *Dataset) (header []string, body [][]Cell) {
	cols := d.Columns()

	header = make([]string, 0, len(cols)+2)
	header = append(header, ColumnNo)
	header = append(header, cols...)
	header = append(header, ColumnAction)

	body = make([][]Cell, d.Rows())
	for i := range body {
		row := make([]Cell, len(cols))
		for j, col := range cols {
			row[j] = Cell{Column: col, Raw: d.Value(col, i).Input()}
		}
		body[i] = row
	}
	return header, body
}
