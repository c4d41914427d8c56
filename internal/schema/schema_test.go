package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
)

func sampleFrame() *frame.Frame {
	return &frame.Frame{Name: "sales.csv", Columns: []*frame.Column{
		frame.NewInt64("id", []int64{1, 2, 3}),
		frame.NewText("amount", frame.Object, []string{"10.5", "20.0", "bad"}, []bool{true, true, true}),
		frame.NewText("date", frame.Object, []string{"2023-01-01", "2023-01-02", ""}, []bool{true, true, false}),
		frame.NewFloat64("score", []float64{1.5, math.NaN(), 2}),
		frame.NewBool("flag", []bool{true, false, true}),
	}}
}

func TestMapToTaxonomy(t *testing.T) {
	want := map[DeclaredType]TaxonomyCategory{
		Int64:    TaxonomyNumeric,
		Float64:  TaxonomyNumeric,
		String:   TaxonomyText,
		Category: TaxonomyCategorical,
		Datetime: TaxonomyDatetime,
	}
	for d, cat := range want {
		got, err := MapToTaxonomy(d)
		require.NoError(t, err, d.String())
		assert.Equal(t, cat, got, d.String())
	}

	_, err := MapToTaxonomy(Bool)
	var ute *UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "bool", ute.Value)

	_, err = MapToTaxonomy(DeclaredType(0))
	assert.ErrorAs(t, err, &ute)
}

func TestParseDeclaredType(t *testing.T) {
	for _, d := range Vocabulary {
		got, err := ParseDeclaredType(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	got, err := ParseDeclaredType("datetime[ns]")
	require.NoError(t, err)
	assert.Equal(t, Datetime, got)

	_, err = ParseDeclaredType("float32")
	var ive *InvalidSchemaValueError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "float32", ive.Value)
}

func TestStorageRoundTrip(t *testing.T) {
	for _, d := range Vocabulary {
		assert.Equal(t, d, ForStorage(d.Storage()), d.String())
	}
	assert.Equal(t, String, ForStorage(frame.Object))
}

func TestInferPreservesOrderAndNormalizesText(t *testing.T) {
	f := sampleFrame()
	d := Infer(f)

	assert.Equal(t, f.Names(), d.Columns())
	assert.Equal(t, map[string]string{
		"id":     "int64",
		"amount": "string",
		"date":   "string",
		"score":  "float64",
		"flag":   "bool",
	}, d.Strings())

	amount, _ := f.Column("amount")
	assert.Equal(t, frame.String, amount.Type, "object columns are normalized in place")
	assert.True(t, d.Satisfied(f))
}

func TestTaxonomyReportsColumn(t *testing.T) {
	d := Infer(sampleFrame())
	_, err := Taxonomy(d)
	var ute *UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "flag", ute.Column)

	ed := NewEditor(d)
	require.NoError(t, ed.Set("flag", "category"))
	got, err := Taxonomy(ed.Declaration())
	require.NoError(t, err)
	assert.Equal(t, TaxonomyCategorical, got["flag"])
	assert.Equal(t, TaxonomyText, got["amount"])
}

func TestEditorRejectsValuesOutsideVocabulary(t *testing.T) {
	ed := NewEditor(Infer(sampleFrame()))

	err := ed.Set("amount", "float32")
	var ive *InvalidSchemaValueError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "amount", ive.Column)

	got, _ := ed.Get("amount")
	assert.Equal(t, String, got, "rejected edits leave the declaration untouched")
}

func TestEditorBoolIsNotSelectable(t *testing.T) {
	ed := NewEditor(Infer(sampleFrame()))
	err := ed.Set("id", "bool")
	var ive *InvalidSchemaValueError
	require.ErrorAs(t, err, &ive)
	assert.NotContains(t, Selectable(), Bool)
	assert.Len(t, Selectable(), len(Vocabulary)-1)
}

func TestEditorKeepsInferredBool(t *testing.T) {
	ed := NewEditor(Infer(sampleFrame()))
	require.NoError(t, ed.Apply(map[string]string{"flag": "bool", "id": "float64"}))
	got, _ := ed.Get("flag")
	assert.Equal(t, Bool, got)

	_, err := Taxonomy(ed.Declaration())
	var ute *UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "flag", ute.Column)
}

func TestEditorUnknownColumn(t *testing.T) {
	ed := NewEditor(Infer(sampleFrame()))
	err := ed.Set("nope", "int64")
	var uce *UnknownColumnError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, 5, len(ed.Columns()))
}

func TestEditorApplyIsAllOrNothing(t *testing.T) {
	ed := NewEditor(Infer(sampleFrame()))
	err := ed.Apply(map[string]string{"amount": "float64", "date": "float32"})
	require.Error(t, err)
	got, _ := ed.Get("amount")
	assert.Equal(t, String, got)

	require.NoError(t, ed.Apply(map[string]string{"amount": "float64", "date": "datetime"}))
	got, _ = ed.Get("date")
	assert.Equal(t, Datetime, got)
}

func TestEditorDoesNotAliasSource(t *testing.T) {
	d := Infer(sampleFrame())
	ed := NewEditor(d)
	require.NoError(t, ed.Set("id", "string"))
	got, _ := d.Get("id")
	assert.Equal(t, Int64, got)
}

func TestNewDeclarationValidates(t *testing.T) {
	_, err := NewDeclaration(Entry{"a", Int64}, Entry{"a", String})
	assert.Error(t, err)
	_, err = NewDeclaration(Entry{"a", DeclaredType(42)})
	var ive *InvalidSchemaValueError
	assert.True(t, errors.As(err, &ive))
}

func TestSchemaFileRoundTrip(t *testing.T) {
	d, err := NewDeclaration(Entry{"2024", Int64}, Entry{"when", Datetime})
	require.NoError(t, err)
	b, err := MarshalYAML(d)
	require.NoError(t, err)
	assert.Contains(t, string(b), "columns:")

	got, err := ParseOverrides(b)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2024": "int64", "when": "datetime"}, got)

	empty, err := ParseOverrides([]byte("{}"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
