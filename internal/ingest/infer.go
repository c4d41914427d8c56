package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
)

// Cell values read as nulls, matching the usual dataframe defaults.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isNull(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// inferColumn picks the narrowest storage type that holds every value:
// int64 (no nulls), float64, bool (no nulls), else object text.
func inferColumn(name string, vals []string) *frame.Column {
	n := len(vals)
	valid := make([]bool, n)
	nulls := 0
	for i, v := range vals {
		valid[i] = !isNull(v)
		if !valid[i] {
			nulls++
		}
	}
	if nulls == n {
		floats := make([]float64, n)
		for i := range floats {
			floats[i] = math.NaN()
		}
		return frame.NewFloat64(name, floats)
	}

	if nulls == 0 {
		if ints, ok := parseInts(vals); ok {
			return frame.NewInt64(name, ints)
		}
		if bools, ok := parseBools(vals); ok {
			return frame.NewBool(name, bools)
		}
	}
	if floats, ok := parseFloats(vals, valid); ok {
		return frame.NewFloat64(name, floats)
	}
	texts := make([]string, n)
	for i, v := range vals {
		if valid[i] {
			texts[i] = v
		}
	}
	return frame.NewText(name, frame.Object, texts, valid)
}

func parseInts(vals []string) ([]int64, bool) {
	out := make([]int64, len(vals))
	for i, v := range vals {
		x, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, false
		}
		out[i] = x
	}
	return out, true
}

func parseFloats(vals []string, valid []bool) ([]float64, bool) {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if !valid[i] {
			out[i] = math.NaN()
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		out[i] = x
	}
	return out, true
}

func parseBools(vals []string) ([]bool, bool) {
	out := make([]bool, len(vals))
	for i, v := range vals {
		switch strings.TrimSpace(v) {
		case "True", "TRUE", "true":
			out[i] = true
		case "False", "FALSE", "false":
		default:
			return nil, false
		}
	}
	return out, true
}
