package model

import (
	"fmt"
	"time"
)

// SentAtLayout is the wire format for message timestamps:
// ISO-8601 with millisecond precision and an explicit offset.
const SentAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp wraps time.Time to marshal with SentAtLayout instead of
// the default RFC3339 nanosecond form.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.Format(SentAtLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}

	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp: %s", s)
	}

	s = s[1 : len(s)-1]

	parsed, err := time.Parse(SentAtLayout, s)
	if err != nil {
		// Accept plain RFC3339 input as well, clients are not uniform here.
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("failed to parse timestamp %q: %w", s, err)
		}
	}

	t.Time = parsed

	return nil
}
