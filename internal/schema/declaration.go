package schema

import (
	"fmt"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
)

// Entry is one column of a Declaration.
type Entry struct {
	Column string
	Type   DeclaredType
}

// Declaration maps column names to declared types, in original column order.
type Declaration struct {
	entries []Entry
	index   map[string]int
}

// NewDeclaration builds a declaration from entries. Column names must be
// unique and every type must belong to Vocabulary.
func NewDeclaration(entries ...Entry) (*Declaration, error) {
	d := &Declaration{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if !e.Type.Valid() {
			return nil, &InvalidSchemaValueError{Column: e.Column, Value: e.Type.String(), Reason: "not one of " + vocabularyList()}
		}
		if _, dup := d.index[e.Column]; dup {
			return nil, fmt.Errorf("duplicate column %q in schema", e.Column)
		}
		d.index[e.Column] = len(d.entries)
		d.entries = append(d.entries, e)
	}
	return d, nil
}

// Len returns the number of columns.
func (d *Declaration) Len() int { return len(d.entries) }

// Entries returns a copy of the entries in order.
func (d *Declaration) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Columns returns the column names in order.
func (d *Declaration) Columns() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Column
	}
	return out
}

// Get returns the declared type of a column.
func (d *Declaration) Get(column string) (DeclaredType, bool) {
	i, ok := d.index[column]
	if !ok {
		return 0, false
	}
	return d.entries[i].Type, true
}

// Clone returns an independent copy.
func (d *Declaration) Clone() *Declaration {
	cp := &Declaration{entries: d.Entries(), index: make(map[string]int, len(d.index))}
	for k, v := range d.index {
		cp.index[k] = v
	}
	return cp
}

// Strings returns the declaration as column -> wire name.
func (d *Declaration) Strings() map[string]string {
	out := make(map[string]string, len(d.entries))
	for _, e := range d.entries {
		out[e.Column] = e.Type.String()
	}
	return out
}

// Satisfied reports whether every declared column of f already has the
// storage type its declaration asks for.
func (d *Declaration) Satisfied(f *frame.Frame) bool {
	for _, e := range d.entries {
		c, ok := f.Column(e.Column)
		if !ok || c.Type != e.Type.Storage() {
			return false
		}
	}
	return true
}

func (d *Declaration) set(column string, t DeclaredType) {
	d.entries[d.index[column]].Type = t
}
