package utils

import (
	"strings"
	"time"
)

const (
	LayoutDate      = "2006-01-02"
	LayoutTimestamp = "2006-01-02T15:04:05Z"
)

// NowUTC returns current time in UTC truncated to seconds, matching the stored precision.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// ParseDate parses YYYY-MM-DD as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(LayoutDate, strings.TrimSpace(s), time.UTC)
}

// ParseDateOrTimestamp accepts YYYY-MM-DD or RFC3339.
func ParseDateOrTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := ParseDate(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatDate formats time to YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(LayoutDate)
}

// FormatTimestamp formats time in the stored text form. Lexical order of the output equals time order.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(LayoutTimestamp)
}
