// Package pass models measurement runs grouped as experimental or control,
// and the reconciliation rules that keep both group tables mirroring the
// server's authoritative lists.
package pass

import (
	"fmt"
	"strings"

	"outlierlab/domain/core"
)

// GroupType names one of the two sample collections.
type GroupType string

const (
	GroupExperimental GroupType = "experimental"
	GroupControl      GroupType = "control"
)

// ParseGroupType validates a wire group tag, defaulting empty to experimental
// for older payloads that never carried one.
func ParseGroupType(s string) (GroupType, error) {
	switch GroupType(strings.ToLower(strings.TrimSpace(s))) {
	case GroupExperimental, "":
		return GroupExperimental, nil
	case GroupControl:
		return GroupControl, nil
	}
	return "", fmt.Errorf("unknown group type %q", s)
}

// Label returns the display name for a group.
func (g GroupType) Label() string {
	if g == GroupControl {
		return "Control"
	}
	return "Experimental"
}

// Method is the outlier-removal technique tag attached to a record.
type Method string

const (
	MethodManual Method = "Manual"
	MethodZScore Method = "Z-Score"
	MethodIQR    Method = "IQR"
	MethodMAD    Method = "MAD"
)

// ThresholdNA marks a record whose method carries no cutoff parameter.
const ThresholdNA = "N/A"

// Record is one pass summary inside a group. The sample name is the identity
// key within its group; the server enforces uniqueness and assigns the
// timestamp. Correction is delete plus re-add, never edit-in-place.
type Record struct {
	SampleName    string         `json:"sample_name"`
	PassNumber    int            `json:"pass_number,omitempty"`
	GroupType     GroupType      `json:"group_type"`
	SizeAvg       float64        `json:"size_avg"`
	PIAvg         float64        `json:"pi_avg"`
	CustomValue   *float64       `json:"custom_data_value,omitempty"`
	RemovalMethod Method         `json:"removal_method"`
	ThresholdUsed string         `json:"threshold_used"`
	Timestamp     core.Timestamp `json:"timestamp"`
}

// Validate checks the client-side required fields before a request is built.
func (r Record) Validate() error {
	if strings.TrimSpace(r.SampleName) == "" {
		return fmt.Errorf("sample name is required")
	}
	return nil
}
