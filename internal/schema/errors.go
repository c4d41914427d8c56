package schema

import "fmt"

// UnsupportedTypeError indicates a declared type has no taxonomy category.
type UnsupportedTypeError struct {
	Column string
	Value  string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("unsupported datatype found for column %q: %s", e.Column, e.Value)
	}
	return fmt.Sprintf("unsupported datatype found: %s", e.Value)
}

// InvalidSchemaValueError indicates a proposed declared type was rejected by the editor.
type InvalidSchemaValueError struct {
	Column string
	Value  string
	Reason string
}

func (e *InvalidSchemaValueError) Error() string {
	msg := fmt.Sprintf("invalid declared type %q", e.Value)
	if e.Column != "" {
		msg = fmt.Sprintf("invalid declared type %q for column %q", e.Value, e.Column)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// UnknownColumnError indicates a schema names a column the data does not have.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}
