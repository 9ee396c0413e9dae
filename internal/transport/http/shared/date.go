package shared

import "time"

// ParseDate accepts RFC3339 timestamps or bare YYYY-MM-DD dates, the two
// forms clients send for deadlines and date filters. Bare dates mean
// midnight UTC.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}
