// Package table holds the canonical measurement dataset: an ordered-column
// grid of nullable numeric values kept consistent between an editable view
// and the server's authoritative copy.
package table

import (
	"fmt"
	"strings"

	"outlierlab/domain/core"
)

// Fixed column names. Size(nm) and PI are matched case-insensitively against
// whatever a payload carries but always stored and displayed in this casing.
const (
	ColumnNo     = "No."
	ColumnSize   = "Size(nm)"
	ColumnPI     = "PI"
	ColumnAction = "Actions"
)

// Dataset is a mapping from column name to a row-aligned sequence of nullable
// values. The row index column is implicit: No. is always 1..Rows() and is
// reassigned on every mutation, never stored per row.
//
// INVARIANTS:
// - Size(nm) and PI always exist (created empty when missing)
// - user columns keep first-seen order after the fixed pair
// - every column slice has length Rows(); missing values are explicit nulls
type Dataset struct {
	extras []string // user-defined columns, first-seen order
	values map[string][]core.Value
	rows   int
}

// New returns an empty dataset carrying only the fixed columns.
func New() *Dataset {
	return NewWithRows(0)
}

// NewWithRows returns a dataset of n all-null rows.
func NewWithRows(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	return &Dataset{
		values: map[string][]core.Value{
			ColumnSize: make([]core.Value, n),
			ColumnPI:   make([]core.Value, n),
		},
		rows: n,
	}
}

// Rows returns the row count.
func (d *Dataset) Rows() int {
	return d.rows
}

// Columns returns the data columns in render order: Size(nm), PI, then the
// user columns in first-seen order. No. and the action column are view
// concerns and are not included.
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, 2+len(d.extras))
	cols = append(cols, ColumnSize, ColumnPI)
	cols = append(cols, d.extras...)
	return cols
}

// canonicalKey maps any incoming column name onto its stored key: the fixed
// pair case-insensitively, user columns by case-insensitive first-seen match.
func (d *Dataset) canonicalKey(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case strings.ToLower(ColumnNo):
		return ColumnNo, true
	case strings.ToLower(ColumnSize):
		return ColumnSize, true
	case strings.ToLower(ColumnPI):
		return ColumnPI, true
	}
	for _, extra := range d.extras {
		if strings.EqualFold(extra, name) {
			return extra, true
		}
	}
	return "", false
}

// Value returns the cell at (column, row); null when the column is unknown
// or the row is out of range.
func (d *Dataset) Value(column string, row int) core.Value {
	key, ok := d.canonicalKey(column)
	if !ok || key == ColumnNo || row < 0 || row >= d.rows {
		return core.Null()
	}
	return d.values[key][row]
}

// SetValue stores a cell, ignoring unknown columns and out-of-range rows.
func (d *Dataset) SetValue(column string, row int, v core.Value) {
	key, ok := d.canonicalKey(column)
	if !ok || key == ColumnNo || row < 0 || row >= d.rows {
		return
	}
	d.values[key][row] = v
}

// Column returns a copy of one column's values, row-aligned.
func (d *Dataset) Column(column string) []core.Value {
	key, ok := d.canonicalKey(column)
	if !ok || key == ColumnNo {
		return nil
	}
	out := make([]core.Value, d.rows)
	copy(out, d.values[key])
	return out
}

// AddColumn appends a user column filled with nulls. The name must be
// non-blank and unique case-insensitively across all columns.
func (d *Dataset) AddColumn(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if _, exists := d.canonicalKey(name); exists {
		return fmt.Errorf("column %q already exists", name)
	}
	d.extras = append(d.extras, name)
	d.values[name] = make([]core.Value, d.rows)
	return nil
}

// AddRow appends one all-null row.
func (d *Dataset) AddRow() {
	d.rows++
	for key := range d.values {
		d.values[key] = append(d.values[key], core.Null())
	}
}

// RemoveRow deletes one row by index. Remaining rows renumber implicitly by
// position.
func (d *Dataset) RemoveRow(index int) bool {
	if index < 0 || index >= d.rows {
		return false
	}
	for key, vals := range d.values {
		d.values[key] = append(vals[:index], vals[index+1:]...)
	}
	d.rows--
	return true
}

// ensureColumn registers a column if it is new and returns its stored key.
func (d *Dataset) ensureColumn(name string) string {
	if key, ok := d.canonicalKey(name); ok {
		return key
	}
	name = strings.TrimSpace(name)
	d.extras = append(d.extras, name)
	d.values[name] = make([]core.Value, d.rows)
	return name
}

// pad brings every column slice up to the current row count so no column is
// ever ragged.
func (d *Dataset) pad() {
	for key, vals := range d.values {
		for len(vals) < d.rows {
			vals = append(vals, core.Null())
		}
		d.values[key] = vals[:d.rows]
	}
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		extras: append([]string(nil), d.extras...),
		values: make(map[string][]core.Value, len(d.values)),
		rows:   d.rows,
	}
	for key, vals := range d.values {
		out.values[key] = append([]core.Value(nil), vals...)
	}
	return out
}

// ValidPairs returns the rows where both Size(nm) and PI hold values, the
// subset the detection engine operates on.
func (d *Dataset) ValidPairs() (sizes, pis []float64) {
	sizeCol := d.values[ColumnSize]
	piCol := d.values[ColumnPI]
	for i := 0; i < d.rows; i++ {
		size, okSize := sizeCol[i].Float()
		pi, okPI := piCol[i].Float()
		if okSize && okPI {
			sizes = append(sizes, size)
			pis = append(pis, pi)
		}
	}
	return sizes, pis
}
