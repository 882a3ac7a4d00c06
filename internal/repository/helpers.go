package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTime parses an RFC3339 column, returning the zero time when empty or
// malformed.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// timeOrNow formats t for storage, substituting the current time for zero.
func timeOrNow(t time.Time) string {
	if t.IsZero() {
		return nowUTC()
	}
	return t.UTC().Format(time.RFC3339)
}

// encodeJSON marshals v for a TEXT payload column.
func encodeJSON(what string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", what, err)
	}
	return string(data), nil
}

// decodeJSON unmarshals a TEXT payload column into dst.
func decodeJSON(what, data string, dst any) error {
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("decoding %s: %w", what, err)
	}
	return nil
}
