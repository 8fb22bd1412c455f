package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a nullable numeric cell. It is the single representation for
// everything a measurement field can hold: either a finite float or nothing.
//
// INVARIANTS:
// - Valid implies Num is finite (never NaN or ±Inf)
// - the zero Value is null
type Value struct {
	Num   float64
	Valid bool
}

// Null returns the explicit no-value marker.
func Null() Value {
	return Value{}
}

// Number wraps a finite float into a Value. Non-finite input collapses to null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Num: f, Valid: true}
}

// Coerce converts arbitrary raw input into a Value. It never fails: empty or
// blank strings, unparsable text, NaN and ±Inf all coerce to null. Every path
// that reads a numeric input field must pass through here before the value
// enters a dataset or a request payload.
func Coerce(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Null()
		}
		return Number(f)
	case string:
		return coerceString(v)
	default:
		return Null()
	}
}

func coerceString(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Null()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null()
	}
	return Number(f)
}

// Float returns the numeric value and whether one is present.
func (v Value) Float() (float64, bool) {
	return v.Num, v.Valid
}

// IsNull reports whether the value is the no-value marker.
func (v Value) IsNull() bool {
	return !v.Valid
}

// Input renders the value the way an editable field is seeded: the number's
// shortest decimal form, or the empty string for null.
func (v Value) Input() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

var nullLiteral = []byte("null")

// MarshalJSON encodes null cells as JSON null, matching the wire format of
// table_data payloads.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return nullLiteral, nil
	}
	return json.Marshal(v.Num)
}

// UnmarshalJSON accepts numbers, null, and numeric strings (older payloads
// carried cells as text).
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, nullLiteral) {
		*v = Null()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = coerceString(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// Tolerate anything else the way input coercion does.
		*v = Null()
		return nil
	}
	*v = Number(f)
	return nil
}
