package table

import (
	"encoding/json"
	"reflect"
	"testing"

	"outlierlab/domain/core"
)

func cells(raws ...string) []Cell {
	row := make([]Cell, len(raws))
	for i, raw := range raws {
		switch i {
		case 0:
			row[i] = Cell{Column: ColumnSize, Raw: raw}
		case 1:
			row[i] = Cell{Column: ColumnPI, Raw: raw}
		default:
			row[i] = Cell{Column: "Custom1", Raw: raw}
		}
	}
	return row
}

// TestExtractScenario covers: reset, three rows, sizes 10/20/30, PI .1/.2/.3.
func TestExtractScenario(t *testing.T) {
	d := Extract([][]Cell{
		cells("10", "0.1"),
		cells("20", "0.2"),
		cells("30", "0.3"),
	})

	if d.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", d.Rows())
	}
	wantSize := []core.Value{core.Number(10), core.Number(20), core.Number(30)}
	if !reflect.DeepEqual(d.Column(ColumnSize), wantSize) {
		t.Errorf("size column = %v, want %v", d.Column(ColumnSize), wantSize)
	}
	wantPI := []core.Value{core.Number(0.1), core.Number(0.2), core.Number(0.3)}
	if !reflect.DeepEqual(d.Column(ColumnPI), wantPI) {
		t.Errorf("pi column = %v, want %v", d.Column(ColumnPI), wantPI)
	}
}

// TestExtractBackfill checks that a column first seen mid-grid gets explicit
// nulls for all rows above it.
func TestExtractBackfill(t *testing.T) {
	d := Extract([][]Cell{
		{{Column: ColumnSize, Raw: "1"}, {Column: ColumnPI, Raw: "0.1"}},
		{{Column: ColumnSize, Raw: "2"}, {Column: ColumnPI, Raw: "0.2"}, {Column: "Temp", Raw: "40"}},
		{{Column: ColumnSize, Raw: "3"}, {Column: ColumnPI, Raw: "0.3"}},
	})

	want := []core.Value{core.Null(), core.Number(40), core.Null()}
	if !reflect.DeepEqual(d.Column("Temp"), want) {
		t.Errorf("Temp column = %v, want %v", d.Column("Temp"), want)
	}
}

// TestExtractIgnoresRowNumberCells checks that a body cell tagged with the
// row-number column is dropped rather than stored: numbering is positional.
func TestExtractIgnoresRowNumberCells(t *testing.T) {
	d := Extract([][]Cell{
		{{Column: ColumnSize, Raw: "1"}, {Column: ColumnPI, Raw: "0.1"}, {Column: ColumnNo, Raw: "7"}},
		{{Column: ColumnSize, Raw: "2"}, {Column: ColumnPI, Raw: "0.2"}, {Column: "no.", Raw: "99"}},
	})

	if d.Rows() != 2 {
		t.Fatalf("rows = %d, want 2", d.Rows())
	}
	want := []string{ColumnSize, ColumnPI}
	if !reflect.DeepEqual(d.Columns(), want) {
		t.Errorf("columns = %v, want %v", d.Columns(), want)
	}
}

func TestExtractCoercesEveryCell(t *testing.T) {
	d := Extract([][]Cell{
		cells("abc", "Infinity"),
		cells("", "0.5"),
	})

	if got := d.Value(ColumnSize, 0); !got.IsNull() {
		t.Errorf("unparsable size = %v, want null", got)
	}
	if got := d.Value(ColumnPI, 0); !got.IsNull() {
		t.Errorf("infinite pi = %v, want null", got)
	}
	if got := d.Value(ColumnSize, 1); !got.IsNull() {
		t.Errorf("empty size = %v, want null", got)
	}
	if got := d.Value(ColumnPI, 1); got != core.Number(0.5) {
		t.Errorf("pi = %v, want 0.5", got)
	}
}

// TestRenderExtractRoundTrip: render(extract(grid)) reproduces the grid
// modulo renumbering.
func TestRenderExtractRoundTrip(t *testing.T) {
	grid := [][]Cell{
		cells("10", "0.1", "7"),
		cells("", "0.2", ""),
		cells("30", "", "9"),
	}

	_, body := RenderPlan(Extract(grid))
	if !reflect.DeepEqual(body, grid) {
		t.Errorf("round trip body = %v, want %v", body, grid)
	}

	again := Extract(body)
	_, body2 := RenderPlan(again)
	if !reflect.DeepEqual(body2, body) {
		t.Errorf("second round trip diverged: %v vs %v", body2, body)
	}
}

// TestHeaderOrdering: keys {PI, Custom1, size(nm), No.} render as
// No., Size(nm), PI, Custom1 regardless of input casing and order.
func TestHeaderOrdering(t *testing.T) {
	var d Dataset
	payload := `{"PI":[0.1],"Custom1":[5],"size(nm)":[12],"No.":[1]}`
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	header, _ := RenderPlan(&d)
	want := []string{ColumnNo, ColumnSize, ColumnPI, "Custom1", ColumnAction}
	if !reflect.DeepEqual(header, want) {
		t.Errorf("header = %v, want %v", header, want)
	}
	if got := d.Value(ColumnSize, 0); got != core.Number(12) {
		t.Errorf("case-insensitive size lookup = %v, want 12", got)
	}
}

func TestUnmarshalPadsRaggedColumns(t *testing.T) {
	var d Dataset
	payload := `{"No.":[1,2,3],"Size(nm)":[10],"PI":[0.1,0.2,0.3,0.4],"Extra":[7,8]}`
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if d.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", d.Rows())
	}
	for _, col := range d.Columns() {
		if got := len(d.Column(col)); got != 3 {
			t.Errorf("column %s length = %d, want 3", col, got)
		}
	}
	if got := d.Value(ColumnSize, 2); !got.IsNull() {
		t.Errorf("padded size cell = %v, want null", got)
	}
	if got := d.Value(ColumnPI, 2); got != core.Number(0.3) {
		t.Errorf("truncated pi column kept %v, want 0.3", got)
	}
}

func TestUnmarshalWithoutNoColumn(t *testing.T) {
	var d Dataset
	if err := json.Unmarshal([]byte(`{"Size(nm)":[1,2]}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Rows() != 0 {
		t.Errorf("rows = %d, want 0 when No. is absent", d.Rows())
	}
}

func TestMarshalColumnOrder(t *testing.T) {
	d := NewWithRows(2)
	if err := d.AddColumn("Viscosity"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	d.SetValue(ColumnSize, 0, core.Number(10))

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"No.":[1,2],"Size(nm)":[10,null],"PI":[null,null],"Viscosity":[null,null]}`
	if string(data) != want {
		t.Errorf("encoding = %s, want %s", data, want)
	}
}

func TestMutationsKeepColumnsAligned(t *testing.T) {
	d := NewWithRows(2)
	if err := d.AddColumn("Temp"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	d.AddRow()
	if !d.RemoveRow(0) {
		t.Fatal("remove row failed")
	}

	for _, col := range d.Columns() {
		if got := len(d.Column(col)); got != d.Rows() {
			t.Errorf("column %s length = %d, want %d", col, got, d.Rows())
		}
	}
	if d.RemoveRow(5) {
		t.Error("out-of-range remove succeeded")
	}
}

func TestAddColumnRejectsDuplicatesAndBlank(t *testing.T) {
	d := New()
	if err := d.AddColumn(""); err == nil {
		t.Error("blank column accepted")
	}
	if err := d.AddColumn("pi"); err == nil {
		t.Error("case-insensitive duplicate of PI accepted")
	}
	if err := d.AddColumn("Temp"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := d.AddColumn("temp"); err == nil {
		t.Error("case-insensitive duplicate of user column accepted")
	}
}
