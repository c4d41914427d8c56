package coerce

import (
	"math"
	"strings"
	"time"
)

// Layouts tried in order for every value; each value may match a different
// one. Month-first slashed dates win over day-first ones.
var temporalLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-1-2T15:04:05.999999999",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04",
	"2006-1-2 15:04:05.999999999",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2.1.2006",
	"20060102",
	"2006-01",
	"2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// Bounds of a signed nanosecond count since the Unix epoch.
var (
	MinTimestamp = time.Unix(0, math.MinInt64).UTC()
	MaxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

// InBounds reports whether t survives a round trip through UnixNano.
func InBounds(t time.Time) bool {
	return !t.Before(MinTimestamp) && !t.After(MaxTimestamp)
}

// ParseTime reads s with the first matching layout. Zoned values are
// converted to UTC; naive values are taken as UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range temporalLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
