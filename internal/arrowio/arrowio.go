// Package arrowio exports typed frames as Apache Arrow IPC files so that
// external dataframe tooling can load the coerced dataset directly.
package arrowio

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
)

var (
	timestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}
	categoryType  = &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.BinaryTypes.String}
)

// DataType returns the Arrow type used for a storage type.
func DataType(t frame.StorageType) (arrow.DataType, error) {
	switch t {
	case frame.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case frame.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case frame.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case frame.Timestamp:
		return timestampType, nil
	case frame.String, frame.Object:
		return arrow.BinaryTypes.String, nil
	case frame.Category:
		return categoryType, nil
	}
	return nil, fmt.Errorf("arrow: no type for storage %s", t)
}

// Schema builds the Arrow schema of f. Every field is nullable.
func Schema(f *frame.Frame) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(f.Columns))
	for i, c := range f.Columns {
		dt, err := DataType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		fields[i] = arrow.Field{Name: c.Name, Type: dt, Nullable: true}
	}
	md := arrow.NewMetadata([]string{"source"}, []string{f.Name})
	return arrow.NewSchema(fields, &md), nil
}

// Record converts f into a single Arrow record. The caller releases it.
func Record(f *frame.Frame, mem memory.Allocator) (arrow.Record, error) {
	schema, err := Schema(f)
	if err != nil {
		return nil, err
	}
	cols := make([]arrow.Array, len(f.Columns))
	defer func() {
		for _, a := range cols {
			if a != nil {
				a.Release()
			}
		}
	}()
	for i, c := range f.Columns {
		cols[i] = buildArray(c, mem)
	}
	return array.NewRecord(schema, cols, int64(f.Rows())), nil
}

func buildArray(c *frame.Column, mem memory.Allocator) arrow.Array {
	switch c.Type {
	case frame.Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(c.Bools, c.Valid)
		return b.NewArray()
	case frame.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(c.Ints, c.Valid)
		return b.NewArray()
	case frame.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(c.Floats, c.Valid)
		return b.NewArray()
	case frame.Timestamp:
		b := array.NewTimestampBuilder(mem, timestampType)
		defer b.Release()
		for i, t := range c.Times {
			if !c.Valid[i] {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(t.UnixNano()))
		}
		return b.NewArray()
	case frame.Category:
		return buildDictionary(c, mem)
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(c.Texts, c.Valid)
		return b.NewArray()
	}
}

func buildDictionary(c *frame.Column, mem memory.Allocator) arrow.Array {
	ib := array.NewInt32Builder(mem)
	defer ib.Release()
	for i, code := range c.Codes {
		if !c.Valid[i] {
			ib.AppendNull()
			continue
		}
		ib.Append(code)
	}
	indices := ib.NewArray()
	defer indices.Release()

	db := array.NewStringBuilder(mem)
	defer db.Release()
	db.AppendValues(c.Levels, nil)
	dict := db.NewArray()
	defer dict.Release()

	return array.NewDictionaryArray(categoryType, indices, dict)
}

// Write writes f as an Arrow IPC file.
func Write(w io.Writer, f *frame.Frame) error {
	mem := memory.NewGoAllocator()
	rec, err := Record(f, mem)
	if err != nil {
		return err
	}
	defer rec.Release()
	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("open arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}
