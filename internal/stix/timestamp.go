package stix

import (
	"fmt"
	"time"
)

// TimestampLayout is the canonical STIX timestamp rendering (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a STIX timestamp. It keeps the parsed instant together with the
// text it was parsed from so that version strings round-trip unchanged.
type Timestamp struct {
	Time time.Time
	Text string
}

// ParseTimestamp parses an RFC 3339 timestamp with optional fractional seconds.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t.UTC(), Text: s}, nil
}

// NewTimestamp wraps an instant, rendering it in the canonical layout.
func NewTimestamp(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{Time: t, Text: t.Format(TimestampLayout)}
}

// String returns the original text, or the canonical rendering when the
// timestamp was built from an instant.
func (t Timestamp) String() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Time.UTC().Format(TimestampLayout)
}

// IsZero reports whether the timestamp is unset.
func (t Timestamp) IsZero() bool {
	return t.Time.IsZero()
}

// Equal reports whether both timestamps denote the same instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.Time.Equal(o.Time)
}
