package table

import (
	"bytes"
	"encoding/json"
	"fmt"

	"outlierlab/domain/core"
)

// MarshalJSON encodes the wire form of table_data: one JSON object with No.
// first as plain integers, then Size(nm), PI and the user columns in render
// order, each a row-aligned array with explicit nulls.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeKey := func(name string) error {
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		return nil
	}

	if err := writeKey(ColumnNo); err != nil {
		return nil, err
	}
	buf.WriteByte('[')
	for i := 0; i < d.rows; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%d", i+1)
	}
	buf.WriteByte(']')

	for _, col := range d.Columns() {
		buf.WriteByte(',')
		if err := writeKey(col); err != nil {
			return nil, err
		}
		vals, err := json.Marshal(d.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(vals)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a table_data object while preserving the order in
// which columns appear, which a plain map decode would lose. The row count
// comes from the No. column (zero when absent); every column is padded or
// truncated to it afterwards so the dataset is never ragged.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("table data must be a JSON object")
	}

	fresh := New()
	sawNo := false
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in table data", tok)
		}

		var raw []core.Value
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}

		if key, _ := fresh.canonicalKey(name); key == ColumnNo {
			sawNo = true
			fresh.rows = len(raw)
			continue
		}
		key := fresh.ensureColumn(name)
		fresh.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	if !sawNo {
		fresh.rows = 0
	}
	fresh.pad()
	*d = *fresh
	return nil
}
