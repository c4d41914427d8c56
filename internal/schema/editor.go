package schema

import "sort"

// Editor holds one file's declaration while a user reviews it. Only values
// change through the editor; the column set is fixed at construction.
type Editor struct {
	decl *Declaration
}

// NewEditor starts editing a copy of d.
func NewEditor(d *Declaration) *Editor {
	return &Editor{decl: d.Clone()}
}

// Declaration returns a snapshot of the current declaration.
func (e *Editor) Declaration() *Declaration { return e.decl.Clone() }

// Columns returns the editable column names in order.
func (e *Editor) Columns() []string { return e.decl.Columns() }

// Get returns the current declared type of a column.
func (e *Editor) Get(column string) (DeclaredType, bool) { return e.decl.Get(column) }

// Set replaces the declared type of one column.
func (e *Editor) Set(column, value string) error {
	t, err := e.validate(column, value)
	if err != nil {
		return err
	}
	e.decl.set(column, t)
	return nil
}

// Apply validates every change before applying any of them.
func (e *Editor) Apply(changes map[string]string) error {
	cols := make([]string, 0, len(changes))
	for c := range changes {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	parsed := make(map[string]DeclaredType, len(changes))
	for _, c := range cols {
		t, err := e.validate(c, changes[c])
		if err != nil {
			return err
		}
		parsed[c] = t
	}
	for _, c := range cols {
		e.decl.set(c, parsed[c])
	}
	return nil
}

func (e *Editor) validate(column, value string) (DeclaredType, error) {
	cur, ok := e.decl.Get(column)
	if !ok {
		return 0, &UnknownColumnError{Column: column}
	}
	t, err := ParseDeclaredType(value)
	if err != nil {
		if ive, ok := err.(*InvalidSchemaValueError); ok {
			ive.Column = column
		}
		return 0, err
	}
	// Restating the inferred type is a no-op; the taxonomy check reports it.
	if !t.Selectable() && t != cur {
		return 0, &InvalidSchemaValueError{Column: column, Value: value, Reason: "no report taxonomy for this type"}
	}
	return t, nil
}
