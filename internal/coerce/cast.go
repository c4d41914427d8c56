package coerce

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

// int64 bounds as float64; 2^63 is the first float outside the range.
const (
	maxInt64Float = 9223372036854775808.0
	minInt64Float = -9223372036854775808.0
)

func isText(t frame.StorageType) bool {
	return t == frame.Object || t == frame.String || t == frame.Category
}

// textAt returns the textual value of row i of a text or categorical column.
func textAt(c *frame.Column, i int) string {
	if c.Type == frame.Category {
		return c.Levels[c.Codes[i]]
	}
	return c.Texts[i]
}

func toInt64(c *frame.Column) (*frame.Column, error) {
	n := c.Len()
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			return nil, castErr(c, schema.Int64, i, ErrNull)
		}
		switch {
		case c.Type == frame.Bool:
			if c.Bools[i] {
				out[i] = 1
			}
		case c.Type == frame.Float64:
			v := c.Floats[i]
			if math.IsInf(v, 0) {
				return nil, castErr(c, schema.Int64, i, ErrNonFinite)
			}
			if v >= maxInt64Float || v < minInt64Float {
				return nil, castErr(c, schema.Int64, i, ErrOverflow)
			}
			out[i] = int64(v) // truncates toward zero
		case c.Type == frame.Timestamp:
			out[i] = c.Times[i].UnixNano()
		case isText(c.Type):
			v, err := strconv.ParseInt(strings.TrimSpace(textAt(c, i)), 10, 64)
			if err != nil {
				return nil, castErr(c, schema.Int64, i, err)
			}
			out[i] = v
		default:
			return nil, castErr(c, schema.Int64, -1, ErrUnsupportedCast)
		}
	}
	return frame.NewInt64(c.Name, out), nil
}

func toFloat64(c *frame.Column) (*frame.Column, error) {
	n := c.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			out[i] = math.NaN()
			continue
		}
		switch {
		case c.Type == frame.Bool:
			if c.Bools[i] {
				out[i] = 1
			}
		case c.Type == frame.Int64:
			out[i] = float64(c.Ints[i])
		case isText(c.Type):
			v, err := strconv.ParseFloat(strings.TrimSpace(textAt(c, i)), 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, castErr(c, schema.Float64, i, err)
			}
			out[i] = v
		default:
			return nil, castErr(c, schema.Float64, -1, ErrUnsupportedCast)
		}
	}
	return frame.NewFloat64(c.Name, out), nil
}

func toBool(c *frame.Column) (*frame.Column, error) {
	n := c.Len()
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		switch {
		case c.Type == frame.Float64:
			// NaN is truthy, as in numpy.
			out[i] = c.Floats[i] != 0
			continue
		case c.IsNull(i):
			return nil, castErr(c, schema.Bool, i, ErrNull)
		case c.Type == frame.Int64:
			out[i] = c.Ints[i] != 0
		case isText(c.Type):
			v, ok := parseBool(textAt(c, i))
			if !ok {
				return nil, castErr(c, schema.Bool, i, ErrNotBoolean)
			}
			out[i] = v
		default:
			return nil, castErr(c, schema.Bool, -1, ErrUnsupportedCast)
		}
	}
	return frame.NewBool(c.Name, out), nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}

// toString never fails; nulls stay null.
func toString(c *frame.Column) *frame.Column {
	n := c.Len()
	vals := make([]string, n)
	valid := append([]bool(nil), c.Valid...)
	dateOnly := c.Type == frame.Timestamp && frame.AllMidnight(c)
	for i := 0; i < n; i++ {
		if !valid[i] {
			continue
		}
		if c.Type == frame.Timestamp {
			vals[i] = frame.FormatTime(c.Times[i], dateOnly)
			continue
		}
		vals[i] = c.Format(i)
	}
	return frame.NewText(c.Name, frame.String, vals, valid)
}

// toCategory encodes distinct values as sorted levels. Typed sources sort by
// value; text sorts lexically.
func toCategory(c *frame.Column) *frame.Column {
	var less func(a, b int) bool
	label := c.Format
	switch c.Type {
	case frame.Bool:
		less = func(a, b int) bool { return !c.Bools[a] && c.Bools[b] }
	case frame.Int64:
		less = func(a, b int) bool { return c.Ints[a] < c.Ints[b] }
	case frame.Float64:
		less = func(a, b int) bool { return c.Floats[a] < c.Floats[b] }
	case frame.Timestamp:
		less = func(a, b int) bool { return c.Times[a].Before(c.Times[b]) }
		dateOnly := frame.AllMidnight(c)
		label = func(i int) string { return frame.FormatTime(c.Times[i], dateOnly) }
	default:
		less = func(a, b int) bool { return textAt(c, a) < textAt(c, b) }
	}

	first := map[string]int{}
	var reps []int
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		k := label(i)
		if _, ok := first[k]; !ok {
			first[k] = i
			reps = append(reps, i)
		}
	}
	sort.SliceStable(reps, func(a, b int) bool { return less(reps[a], reps[b]) })
	levels := make([]string, len(reps))
	code := make(map[string]int32, len(reps))
	for j, r := range reps {
		levels[j] = label(r)
		code[levels[j]] = int32(j)
	}
	codes := make([]int32, c.Len())
	for i := range codes {
		if c.IsNull(i) {
			codes[i] = -1
			continue
		}
		codes[i] = code[label(i)]
	}
	return frame.NewCategory(c.Name, codes, levels)
}

func toTimestamp(c *frame.Column) (*frame.Column, error) {
	if !isText(c.Type) {
		for i := 0; i < c.Len(); i++ {
			if !c.IsNull(i) {
				return nil, temporalErr(c, i, ErrNumericTemporal)
			}
		}
		return nil, temporalErr(c, -1, ErrNumericTemporal)
	}
	n := c.Len()
	vals := make([]time.Time, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			continue
		}
		t, ok := ParseTime(textAt(c, i))
		if !ok {
			return nil, temporalErr(c, i, ErrNotTemporal)
		}
		if !InBounds(t) {
			return nil, temporalErr(c, i, ErrOutOfBounds)
		}
		vals[i] = t
		valid[i] = true
	}
	return frame.NewTimestamp(c.Name, vals, valid), nil
}
