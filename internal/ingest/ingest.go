// Package ingest reads tabular datafiles into raw frames.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
)

// Options controls how files are read.
type Options struct {
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{}
}

// Reader reads one file format into a header and string rows.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

// Table is the untyped content of a file before storage inference.
type Table struct {
	Header   []string
	Rows     [][]string
	Warnings []string
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// UnsupportedFileTypeError indicates no reader accepts the file's extension.
type UnsupportedFileTypeError struct {
	Name string
	Ext  string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unexpected file type %q from %s (supported: %s)", e.Ext, e.Name, strings.Join(SupportedExtensions(), ", "))
}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".xlsx"}
}

// Supported reports whether a reader accepts filename.
func Supported(filename string) bool {
	return readerFor(filename) != nil
}

func readerFor(filename string) Reader {
	for _, r := range registry {
		if r.CanRead(filename) {
			return r
		}
	}
	return nil
}

// Load reads a datafile and infers a storage type for every column.
func Load(path string, opt Options) (*frame.Frame, error) {
	r := readerFor(path)
	if r == nil {
		return nil, &UnsupportedFileTypeError{Name: filepath.Base(path), Ext: strings.ToLower(filepath.Ext(path))}
	}
	tbl, err := r.Read(path, opt)
	if err != nil {
		return nil, err
	}
	f := Build(tbl)
	f.Name = filepath.Base(path)
	return f, nil
}

// Build turns a table into a frame, inferring storage types per column.
func Build(tbl *Table) *frame.Frame {
	names := columnNames(tbl.Header)
	f := &frame.Frame{Columns: make([]*frame.Column, len(names)), Warnings: tbl.Warnings}
	vals := make([]string, len(tbl.Rows))
	for j, name := range names {
		for i, row := range tbl.Rows {
			if j < len(row) {
				vals[i] = row[j]
			} else {
				vals[i] = ""
			}
		}
		f.Columns[j] = inferColumn(name, vals)
	}
	return f
}

// columnNames fills blank headers and de-duplicates repeated ones as
// "name.1", "name.2", ...
func columnNames(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			seen[base]++
			name = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
