package pass

import (
	"reflect"
	"testing"
)

func TestReplaceSortsBySampleName(t *testing.T) {
	l := NewLedger()
	l.Replace(GroupExperimental, []Record{
		{SampleName: "batch-C", GroupType: GroupExperimental},
		{SampleName: "batch-A", GroupType: GroupExperimental},
		{SampleName: "batch-B", GroupType: GroupExperimental},
	})

	var names []string
	for _, r := range l.Group(GroupExperimental) {
		names = append(names, r.SampleName)
	}
	want := []string{"batch-A", "batch-B", "batch-C"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestReplaceAllSplitsGroupsAndClearsStale(t *testing.T) {
	l := NewLedger()
	l.Replace(GroupControl, []Record{{SampleName: "old", GroupType: GroupControl}})

	l.ReplaceAll([]Record{
		{SampleName: "exp-1", GroupType: GroupExperimental},
		{SampleName: "exp-2", GroupType: GroupExperimental},
	})

	if got := len(l.Group(GroupExperimental)); got != 2 {
		t.Errorf("experimental count = %d, want 2", got)
	}
	// A list that no longer mentions a group empties it; nothing survives
	// a full replacement.
	if got := len(l.Group(GroupControl)); got != 0 {
		t.Errorf("control count = %d, want 0", got)
	}
}

func TestReplaceAllDefaultsMissingGroupTag(t *testing.T) {
	l := NewLedger()
	l.ReplaceAll([]Record{{SampleName: "untagged"}})
	if _, ok := l.Find(GroupExperimental, "untagged"); !ok {
		t.Error("untagged record should land in the experimental group")
	}
}

func TestGroupReturnsCopy(t *testing.T) {
	l := NewLedger()
	l.Replace(GroupExperimental, []Record{{SampleName: "a"}})
	got := l.Group(GroupExperimental)
	got[0].SampleName = "mutated"
	if r, _ := l.Find(GroupExperimental, "a"); r.SampleName != "a" {
		t.Error("ledger contents mutated through returned slice")
	}
}

func TestClassifyMethodMatchesWithinTolerance(t *testing.T) {
	cached := []MethodResult{
		{Method: MethodZScore, Threshold: 3, SizeMean: 150.1234, PIMean: 0.2345},
		{Method: MethodIQR, Threshold: 1.5, SizeMean: 148.9, PIMean: 0.22},
		{Method: MethodMAD, Threshold: 3.5, SizeMean: 151.3, PIMean: 0.24},
	}

	method, threshold := ClassifyMethod(150.1236, 0.2347, cached, MethodManual, ThresholdNA)
	if method != MethodZScore {
		t.Errorf("method = %s, want Z-Score", method)
	}
	if threshold != "3" {
		t.Errorf("threshold = %s, want 3", threshold)
	}
}

func TestClassifyMethodRejectsJustOutsideTolerance(t *testing.T) {
	cached := []MethodResult{
		{Method: MethodZScore, Threshold: 3, SizeMean: 150.0, PIMean: 0.2},
	}

	// 0.001 off on one dimension keeps the user-chosen tag.
	method, threshold := ClassifyMethod(150.001, 0.2, cached, MethodManual, ThresholdNA)
	if method != MethodManual || threshold != ThresholdNA {
		t.Errorf("got %s/%s, want Manual/N/A", method, threshold)
	}

	// Same distance on the other dimension.
	method, _ = ClassifyMethod(150.0, 0.201, cached, MethodManual, ThresholdNA)
	if method != MethodManual {
		t.Errorf("method = %s, want Manual", method)
	}
}

func TestClassifyMethodPicksBestOfOverlappingMatches(t *testing.T) {
	cached := []MethodResult{
		{Method: MethodIQR, Threshold: 1.5, SizeMean: 100.0004, PIMean: 0.1},
		{Method: MethodZScore, Threshold: 3, SizeMean: 100.0001, PIMean: 0.1},
	}

	method, _ := ClassifyMethod(100.0, 0.1, cached, MethodManual, ThresholdNA)
	if method != MethodZScore {
		t.Errorf("method = %s, want the closer Z-Score match", method)
	}
}

func TestClassifyMethodDefaultsEmptyChoice(t *testing.T) {
	method, threshold := ClassifyMethod(1, 1, nil, "", "")
	if method != MethodManual || threshold != ThresholdNA {
		t.Errorf("got %s/%s, want Manual/N/A", method, threshold)
	}
}

func TestParseGroupType(t *testing.T) {
	tests := []struct {
		input    string
		expected GroupType
		hasError bool
	}{
		{"experimental", GroupExperimental, false},
		{"control", GroupControl, false},
		{"Control", GroupControl, false},
		{"", GroupExperimental, false},
		{"plasma", "", true},
	}
	for _, test := range tests {
		got, err := ParseGroupType(test.input)
		if test.hasError && err == nil {
			t.Errorf("expected error for %q", test.input)
		}
		if !test.hasError && (err != nil || got != test.expected) {
			t.Errorf("ParseGroupType(%q) = %s, %v; want %s", test.input, got, err, test.expected)
		}
	}
}
