package util

import (
	"strconv"
	"strings"
	"time"
)

// DayLayout is the canonical day format used on the wire.
const DayLayout = "2006-01-02"

var dayLayouts = []string{
	DayLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339,
	time.RFC3339Nano,
	"01/02/2006",
	"2006/01/02",
}

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseDay parses a calendar day written in any of the layouts seen in daily
// price exports, or unix seconds. The result is truncated to midnight UTC.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	if t, ok := ParseTime(s); ok {
		return truncateDay(t), true
	}
	return time.Time{}, false
}

// FormatDay renders t with DayLayout.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
