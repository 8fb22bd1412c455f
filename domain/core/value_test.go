package core

import (
	"encoding/json"
	"math"
	"testing"
)

// TestCoerce covers the single point of truth for "what counts as a valid cell".
func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  Value
	}{
		{"empty string", "", Null()},
		{"blank string", "   ", Null()},
		{"text", "abc", Null()},
		{"number text", "3.14", Number(3.14)},
		{"padded number text", " 7.5 ", Number(7.5)},
		{"infinity text", "Infinity", Null()},
		{"negative infinity text", "-Inf", Null()},
		{"nan text", "NaN", Null()},
		{"nil", nil, Null()},
		{"float", 12.5, Number(12.5)},
		{"float nan", math.NaN(), Null()},
		{"float inf", math.Inf(1), Null()},
		{"int", 42, Number(42)},
		{"bool is not a number", true, Null()},
	}

	for _, test := range tests {
		got := Coerce(test.input)
		if got != test.want {
			t.Errorf("%s: Coerce(%v) = %+v, want %+v", test.name, test.input, got, test.want)
		}
	}
}

func TestValueInput(t *testing.T) {
	if got := Null().Input(); got != "" {
		t.Errorf("Null().Input() = %q, want empty", got)
	}
	if got := Number(10).Input(); got != "10" {
		t.Errorf("Number(10).Input() = %q, want 10", got)
	}
	if got := Number(0.1).Input(); got != "0.1" {
		t.Errorf("Number(0.1).Input() = %q, want 0.1", got)
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	in := []Value{Null(), Number(1), Number(0.25), Null()}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[null,1,0.25,null]" {
		t.Errorf("unexpected encoding: %s", data)
	}

	var out []Value
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("index %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestValueUnmarshalTolerance(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{`"3.5"`, Number(3.5)},
		{`""`, Null()},
		{`"abc"`, Null()},
		{`true`, Null()},
	}
	for _, test := range tests {
		var v Value
		if err := json.Unmarshal([]byte(test.raw), &v); err != nil {
			t.Fatalf("unmarshal %s: %v", test.raw, err)
		}
		if v != test.want {
			t.Errorf("unmarshal %s = %+v, want %+v", test.raw, v, test.want)
		}
	}
}
