package core

import (
	"encoding/json"
	"time"
)

// stampLayout is the display format attached to sample records. It travels
// the wire as-is and clients render it without reformatting.
const stampLayout = "2006-01-02 15:04:05"

// Timestamp is a server-assigned record time with a fixed display format.
type Timestamp time.Time

// Now returns the current timestamp.
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero.
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// String renders the fixed display form.
func (t Timestamp) String() string {
	return time.Time(t).Format(stampLayout)
}

// MarshalJSON encodes the display form, not RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the display form and, for tolerance, RFC 3339.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(stampLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	*t = Timestamp(parsed)
	return nil
}
