package coerce

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

var (
	// ErrNull is returned when a null value cannot be represented by the target type.
	ErrNull = errors.New("cannot convert null values")
	// ErrNonFinite is returned for NaN or infinite floats cast to int64.
	ErrNonFinite = errors.New("cannot convert non-finite values to integer")
	// ErrOverflow is returned when a float lies outside the int64 range.
	ErrOverflow = errors.New("value out of int64 range")
	// ErrNotBoolean is returned for text that is not a recognized boolean token.
	ErrNotBoolean = errors.New("not a boolean value")
	// ErrNotTemporal is returned for text no layout can read as a timestamp.
	ErrNotTemporal = errors.New("no known date/time layout matches")
	// ErrOutOfBounds is returned for timestamps a nanosecond count cannot hold.
	ErrOutOfBounds = errors.New("timestamp outside the nanosecond range (1677-09-21 to 2262-04-11)")
	// ErrNumericTemporal is returned for numeric or boolean sources declared datetime.
	ErrNumericTemporal = errors.New("numeric and boolean values are not read as timestamps")
	// ErrUnsupportedCast is returned for storage pairs with no conversion.
	ErrUnsupportedCast = errors.New("no conversion between these types")
)

// CoercionError describes the first value of a column that could not be
// converted. Row is the 0-based data row, or -1 when the failure is not tied
// to a single value.
type CoercionError struct {
	Column string
	From   frame.StorageType
	To     schema.DeclaredType
	Row    int
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("column %q: cannot convert %s to %s", e.Column, e.From, e.To)
	if e.Row >= 0 {
		msg += fmt.Sprintf(" (row %d, value %q)", e.Row, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CoercionError) Unwrap() error { return e.Err }

// TemporalParseError is a CoercionError raised while parsing timestamps.
type TemporalParseError struct{ *CoercionError }

func (e *TemporalParseError) Error() string {
	return "datetime parse failed: " + e.CoercionError.Error()
}

func (e *TemporalParseError) Unwrap() error { return e.CoercionError }

// CastError is a CoercionError raised by a non-temporal type cast.
type CastError struct{ *CoercionError }

func (e *CastError) Error() string { return "type cast failed: " + e.CoercionError.Error() }

func (e *CastError) Unwrap() error { return e.CoercionError }

func castErr(c *frame.Column, to schema.DeclaredType, row int, err error) error {
	return &CastError{newCoercionError(c, to, row, err)}
}

func temporalErr(c *frame.Column, row int, err error) error {
	return &TemporalParseError{newCoercionError(c, schema.Datetime, row, err)}
}

func newCoercionError(c *frame.Column, to schema.DeclaredType, row int, err error) *CoercionError {
	ce := &CoercionError{Column: c.Name, From: c.Type, To: to, Row: row, Err: err}
	if row >= 0 {
		ce.Value = rawValue(c, row)
	}
	return ce
}

// rawValue renders row i for error payloads; nulls render as "<NA>".
func rawValue(c *frame.Column, i int) string {
	if c.IsNull(i) {
		return "<NA>"
	}
	return c.Format(i)
}
