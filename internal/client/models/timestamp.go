package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Accepted wire layouts. The backend serializes LocalDateTime without a zone
// ("2025-01-15T10:30:00"), optionally with fractional seconds; RFC3339 is
// accepted for forward compatibility.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
}

// Timestamp is a backend-assigned event time. A stage the backend has not
// stamped yet unmarshals as the zero Timestamp; IsZero reports that state so
// renderers can show a placeholder instead of failing.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format("2006-01-02T15:04:05"))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
