package frame

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatFloat renders a float the way Python's repr does: shortest round-trip
// digits, a trailing ".0" for integral values and exponent form outside
// [1e-4, 1e16).
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// FormatTime renders a timestamp. dateOnly drops the clock part.
func FormatTime(t time.Time, dateOnly bool) string {
	if dateOnly {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05.999999999")
}

// AllMidnight reports whether every valid timestamp in c falls on midnight.
func AllMidnight(c *Column) bool {
	for i, t := range c.Times {
		if !c.Valid[i] {
			continue
		}
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
			return false
		}
	}
	return true
}
