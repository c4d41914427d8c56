// Package frame holds the in-memory columnar datasets read from files and
// produced by coercion.
package frame

import (
	"fmt"
	"math"
	"time"
)

// StorageType is the in-memory representation of a column's values.
type StorageType int

const (
	_ StorageType = iota // zero value is invalid

	// Object holds untyped text as read from a file. Inference normalizes it to String.
	Object
	Bool
	Int64
	Float64
	Timestamp
	String
	Category
)

// String returns the dtype name a dataframe user would recognize.
func (t StorageType) String() string {
	switch t {
	case Object:
		return "object"
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Timestamp:
		return "datetime64[ns]"
	case String:
		return "string"
	case Category:
		return "category"
	default:
		return fmt.Sprintf("StorageType(%d)", int(t))
	}
}

// IsNumeric reports whether values are held as numbers.
func (t StorageType) IsNumeric() bool { return t == Int64 || t == Float64 }

// Column is a named sequence of values. Exactly one value slice is populated,
// selected by Type. Valid marks non-null rows and always has Len() entries.
type Column struct {
	Name  string
	Type  StorageType
	Valid []bool

	Bools  []bool
	Ints   []int64
	Floats []float64
	Times  []time.Time
	Texts  []string // Object and String
	Codes  []int32  // Category; -1 marks null
	Levels []string // Category levels in sort order
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.Valid) }

// IsNull reports whether row i is null.
func (c *Column) IsNull(i int) bool { return !c.Valid[i] }

// NullCount returns the number of null rows.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Valid {
		if !v {
			n++
		}
	}
	return n
}

// Format renders row i for display. Nulls render as the empty string.
func (c *Column) Format(i int) string {
	if !c.Valid[i] {
		return ""
	}
	switch c.Type {
	case Bool:
		if c.Bools[i] {
			return "True"
		}
		return "False"
	case Int64:
		return fmt.Sprintf("%d", c.Ints[i])
	case Float64:
		return FormatFloat(c.Floats[i])
	case Timestamp:
		return FormatTime(c.Times[i], false)
	case Category:
		return c.Levels[c.Codes[i]]
	default:
		return c.Texts[i]
	}
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Type: c.Type}
	out.Valid = append([]bool(nil), c.Valid...)
	out.Bools = append([]bool(nil), c.Bools...)
	out.Ints = append([]int64(nil), c.Ints...)
	out.Floats = append([]float64(nil), c.Floats...)
	out.Times = append([]time.Time(nil), c.Times...)
	out.Texts = append([]string(nil), c.Texts...)
	out.Codes = append([]int32(nil), c.Codes...)
	out.Levels = append([]string(nil), c.Levels...)
	return out
}

// NewText builds an Object or String column. A row is null when valid[i] is false.
func NewText(name string, t StorageType, vals []string, valid []bool) *Column {
	return &Column{Name: name, Type: t, Texts: vals, Valid: valid}
}

// NewInt64 builds an Int64 column with no nulls.
func NewInt64(name string, vals []int64) *Column {
	return &Column{Name: name, Type: Int64, Ints: vals, Valid: allValid(len(vals))}
}

// NewFloat64 builds a Float64 column. NaN values are nulls.
func NewFloat64(name string, vals []float64) *Column {
	valid := make([]bool, len(vals))
	for i, v := range vals {
		valid[i] = !math.IsNaN(v)
	}
	return &Column{Name: name, Type: Float64, Floats: vals, Valid: valid}
}

// NewBool builds a Bool column with no nulls.
func NewBool(name string, vals []bool) *Column {
	return &Column{Name: name, Type: Bool, Bools: vals, Valid: allValid(len(vals))}
}

// NewTimestamp builds a Timestamp column. A row is null when valid[i] is false.
func NewTimestamp(name string, vals []time.Time, valid []bool) *Column {
	return &Column{Name: name, Type: Timestamp, Times: vals, Valid: valid}
}

// NewCategory builds a Category column from codes into levels.
func NewCategory(name string, codes []int32, levels []string) *Column {
	valid := make([]bool, len(codes))
	for i, c := range codes {
		valid[i] = c >= 0
	}
	return &Column{Name: name, Type: Category, Codes: codes, Levels: levels, Valid: valid}
}

func allValid(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

// Frame is an ordered set of equally long columns read from one file.
type Frame struct {
	Name     string
	Columns  []*Column
	Warnings []string
}

// Rows returns the number of rows in the frame.
func (f *Frame) Rows() int {
	if len(f.Columns) == 0 {
		return 0
	}
	return f.Columns[0].Len()
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (f *Frame) Column(name string) (*Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Types returns the storage type of every column keyed by name.
func (f *Frame) Types() map[string]StorageType {
	out := make(map[string]StorageType, len(f.Columns))
	for _, c := range f.Columns {
		out[c.Name] = c.Type
	}
	return out
}
