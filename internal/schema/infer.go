package schema

import "github.com/KaramelBytes/autoeda-cli/internal/frame"

// Infer derives a declaration from the storage types of f. Object columns
// are first converted to String in place so that every inferred type is
// deterministic; this is the only mutation applied to a raw frame.
func Infer(f *frame.Frame) *Declaration {
	NormalizeText(f)
	d := &Declaration{index: make(map[string]int, len(f.Columns))}
	for _, c := range f.Columns {
		d.index[c.Name] = len(d.entries)
		d.entries = append(d.entries, Entry{Column: c.Name, Type: ForStorage(c.Type)})
	}
	return d
}

// NormalizeText retypes Object columns as String. Values and nulls are kept.
func NormalizeText(f *frame.Frame) {
	for _, c := range f.Columns {
		if c.Type == frame.Object {
			c.Type = frame.String
		}
	}
}
