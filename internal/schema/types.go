// Package schema holds the declared-type vocabulary, the per-file schema
// declaration and its editor, and the mapping onto the report taxonomy.
package schema

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
)

// DeclaredType is the type a user selects for a column.
type DeclaredType int

const (
	_ DeclaredType = iota // zero value is invalid

	Bool
	Int64
	Float64
	Datetime
	String
	Category
)

// Vocabulary is the closed set of declared types, in display order.
var Vocabulary = []DeclaredType{Bool, Int64, Float64, Datetime, String, Category}

// String returns the wire name of the declared type.
func (d DeclaredType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Datetime:
		return "datetime"
	case String:
		return "string"
	case Category:
		return "category"
	default:
		return fmt.Sprintf("DeclaredType(%d)", int(d))
	}
}

// Valid reports whether d is a member of Vocabulary.
func (d DeclaredType) Valid() bool { return d >= Bool && d <= Category }

// Selectable reports whether d may be chosen through the Editor. Bool is part
// of the vocabulary but has no report taxonomy, so it is never offered.
func (d DeclaredType) Selectable() bool { return d.Valid() && d != Bool }

// Selectable returns the declared types offered to a user.
func Selectable() []DeclaredType {
	out := make([]DeclaredType, 0, len(Vocabulary))
	for _, d := range Vocabulary {
		if d.Selectable() {
			out = append(out, d)
		}
	}
	return out
}

// Storage returns the storage type a column holds once coerced to d.
func (d DeclaredType) Storage() frame.StorageType {
	switch d {
	case Bool:
		return frame.Bool
	case Int64:
		return frame.Int64
	case Float64:
		return frame.Float64
	case Datetime:
		return frame.Timestamp
	case String:
		return frame.String
	case Category:
		return frame.Category
	default:
		panic(fmt.Sprintf("schema: storage of invalid declared type %d", int(d)))
	}
}

// ForStorage derives the declared type that matches a storage type.
// Object maps to String, mirroring the text normalization done by Infer.
func ForStorage(t frame.StorageType) DeclaredType {
	switch t {
	case frame.Bool:
		return Bool
	case frame.Int64:
		return Int64
	case frame.Float64:
		return Float64
	case frame.Timestamp:
		return Datetime
	case frame.Category:
		return Category
	default:
		return String
	}
}

// ParseDeclaredType parses a wire name. The dataframe spellings
// "datetime[ns]" and "datetime64[ns]" are accepted for Datetime.
func ParseDeclaredType(s string) (DeclaredType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool":
		return Bool, nil
	case "int64":
		return Int64, nil
	case "float64":
		return Float64, nil
	case "datetime", "datetime[ns]", "datetime64[ns]":
		return Datetime, nil
	case "string":
		return String, nil
	case "category":
		return Category, nil
	}
	return 0, &InvalidSchemaValueError{Value: s, Reason: "not one of " + vocabularyList()}
}

func vocabularyList() string {
	names := make([]string, len(Vocabulary))
	for i, d := range Vocabulary {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

// TaxonomyCategory is the coarse semantic type consumed by the report generator.
type TaxonomyCategory string

const (
	TaxonomyNumeric     TaxonomyCategory = "Numeric"
	TaxonomyText        TaxonomyCategory = "Text"
	TaxonomyCategorical TaxonomyCategory = "Categorical"
	TaxonomyDatetime    TaxonomyCategory = "Datetime"
)

// MapToTaxonomy translates a declared type into its report category.
// Bool and invalid values return *UnsupportedTypeError.
func MapToTaxonomy(d DeclaredType) (TaxonomyCategory, error) {
	switch d {
	case Int64, Float64:
		return TaxonomyNumeric, nil
	case String:
		return TaxonomyText, nil
	case Category:
		return TaxonomyCategorical, nil
	case Datetime:
		return TaxonomyDatetime, nil
	default:
		return "", &UnsupportedTypeError{Value: d.String()}
	}
}

// Taxonomy maps every column of decl, failing on the first column whose
// declared type has no category.
func Taxonomy(decl *Declaration) (map[string]TaxonomyCategory, error) {
	out := make(map[string]TaxonomyCategory, decl.Len())
	for _, e := range decl.Entries() {
		cat, err := MapToTaxonomy(e.Type)
		if err != nil {
			return nil, &UnsupportedTypeError{Column: e.Column, Value: e.Type.String()}
		}
		out[e.Column] = cat
	}
	return out, nil
}
