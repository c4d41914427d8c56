// Package coerce applies an approved schema declaration to a raw frame,
// converting every declared column to its declared storage type.
package coerce

import (
	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

// Apply converts the columns of raw named by decl, in declaration order, and
// returns a new frame. Columns not named by decl are copied unchanged. The
// first failing column aborts the whole call and no frame is returned.
func Apply(raw *frame.Frame, decl *schema.Declaration) (*frame.Frame, error) {
	pos := make(map[string]int, len(raw.Columns))
	for i, c := range raw.Columns {
		pos[c.Name] = i
	}
	for _, e := range decl.Entries() {
		if _, ok := pos[e.Column]; !ok {
			return nil, &schema.UnknownColumnError{Column: e.Column}
		}
	}

	cols := make([]*frame.Column, len(raw.Columns))
	for _, e := range decl.Entries() {
		i := pos[e.Column]
		c, err := Column(raw.Columns[i], e.Type)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	for i, c := range cols {
		if c == nil {
			cols[i] = raw.Columns[i].Clone()
		}
	}
	return &frame.Frame{
		Name:     raw.Name,
		Columns:  cols,
		Warnings: append([]string(nil), raw.Warnings...),
	}, nil
}

// Column converts one column to the storage type of to. A column that already
// has that storage type is copied as is.
func Column(src *frame.Column, to schema.DeclaredType) (*frame.Column, error) {
	if !to.Valid() {
		return nil, castErr(src, to, -1, ErrUnsupportedCast)
	}
	if src.Type == to.Storage() {
		return src.Clone(), nil
	}
	switch to {
	case schema.Datetime:
		return toTimestamp(src)
	case schema.Int64:
		return toInt64(src)
	case schema.Float64:
		return toFloat64(src)
	case schema.Bool:
		return toBool(src)
	case schema.String:
		return toString(src), nil
	case schema.Category:
		return toCategory(src), nil
	}
	return nil, castErr(src, to, -1, ErrUnsupportedCast)
}
