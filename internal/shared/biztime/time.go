// Package biztime holds the time conventions of the service.
// Everything is stored and transported in UTC; provider timestamps arrive in
// several shapes and are normalized here.
package biztime

import (
	"strconv"
	"strings"
	"time"
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return nowFunc().UTC()
}

// FormatISO formats t as an RFC 3339 UTC timestamp with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ExpiresAt converts a relative lifetime in seconds into an absolute UTC instant.
func ExpiresAt(seconds int64) time.Time {
	return NowUTC().Add(time.Duration(seconds) * time.Second)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParseTimestamp parses a provider timestamp. Accepted inputs are ISO-8601 /
// RFC 3339 strings, a few common date-time layouts and epoch values (seconds or
// milliseconds). ok is false for anything unparsable.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		if n <= 0 {
			return time.Time{}, false
		}
		// values past 1e11 cannot be seconds within this millennium
		if n >= 1e11 {
			return time.UnixMilli(int64(n)).UTC(), true
		}
		return time.Unix(int64(n), 0).UTC(), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
