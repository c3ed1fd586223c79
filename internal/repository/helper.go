package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a stored timestamp in RFC3339 or "2006-01-02" format and
// normalizes it to UTC.
func ParseTime(str string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, str)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
		}
	}
	return parsed.UTC(), nil
}
