package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autoeda-cli/internal/coerce"
	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/ingest"
	"github.com/KaramelBytes/autoeda-cli/internal/report"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const salesCSV = "id,amount,date\n1,10.5,2023-01-01\n2,20,2023-01-02\n3,7.25,2023-01-03\n"

func TestOpenInfersSchema(t *testing.T) {
	p := writeFile(t, t.TempDir(), "sales.csv", salesCSV)
	s, err := Open(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", s.FileName)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, []string{"id", "amount", "date"}, s.Editor.Columns())
	assert.Equal(t, map[string]string{"id": "int64", "amount": "float64", "date": "string"}, s.Declaration().Strings())
	assert.Nil(t, s.Input())
}

func TestReconcileProducesTypedInput(t *testing.T) {
	p := writeFile(t, t.TempDir(), "sales.csv", salesCSV)
	s, err := Open(p, Options{Title: "Q1", Explorative: true})
	require.NoError(t, err)
	require.NoError(t, s.Editor.Set("date", "datetime"))

	in, err := s.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, map[string]schema.TaxonomyCategory{
		"id":     schema.TaxonomyNumeric,
		"amount": schema.TaxonomyNumeric,
		"date":   schema.TaxonomyDatetime,
	}, in.Types)
	assert.Equal(t, "Q1", in.Title)
	assert.True(t, in.Explorative)
	assert.False(t, in.Minimal)

	date, ok := in.Dataset.Column("date")
	require.True(t, ok)
	assert.Equal(t, frame.Timestamp, date.Type)
	// raw frame is left as read
	raw, _ := s.Raw.Column("date")
	assert.Equal(t, frame.String, raw.Type)
}

func TestReconcileRejectsBoolBeforeCoercion(t *testing.T) {
	p := writeFile(t, t.TempDir(), "flags.csv", "flag,n\nTrue,1\nFalse,2\n")
	s, err := Open(p, Options{})
	require.NoError(t, err)
	got, _ := s.Editor.Get("flag")
	require.Equal(t, schema.Bool, got)

	_, err = s.Reconcile()
	var unsupported *schema.UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "flag", unsupported.Column)
	assert.Nil(t, s.Typed)

	require.NoError(t, s.Editor.Set("flag", "category"))
	_, err = s.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, schema.TaxonomyCategorical, s.Taxonomy["flag"])
}

func TestReconcileClearsPreviousResultOnFailure(t *testing.T) {
	p := writeFile(t, t.TempDir(), "sales.csv", "id,amount\n1,10.5\n2,bad\n")
	s, err := Open(p, Options{})
	require.NoError(t, err)
	_, err = s.Reconcile()
	require.NoError(t, err)
	require.NotNil(t, s.Typed)

	require.NoError(t, s.Editor.Set("amount", "float64"))
	_, err = s.Reconcile()
	var cast *coerce.CastError
	require.ErrorAs(t, err, &cast)
	assert.Equal(t, "amount", cast.Column)
	assert.Nil(t, s.Typed)
	assert.Nil(t, s.Taxonomy)
}

type failingGenerator struct{}

func (failingGenerator) Generate(report.Input) (*report.Document, error) {
	return nil, errors.New("boom")
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "sales.csv", salesCSV)
	bad := writeFile(t, dir, "broken.csv", "id,amount\n1,10.5\n2,bad\n")
	other := writeFile(t, dir, "notes.json", "{}")
	missing := filepath.Join(dir, "missing.csv")

	prepare := func(s *Session) error {
		if _, ok := s.Editor.Get("amount"); ok {
			return s.Editor.Set("amount", "float64")
		}
		return nil
	}
	results := RunBatch([]string{bad, good, other, missing}, Options{}, prepare, report.Profiler{Format: report.FormatMarkdown})
	require.Len(t, results, 4)

	var cast *coerce.CastError
	assert.ErrorAs(t, results[0].Err, &cast)
	assert.Equal(t, StageCoerce, results[0].Stage)

	assert.True(t, results[1].OK())
	assert.Equal(t, StageDone, results[1].Stage)
	assert.Equal(t, "Sales-report.md", results[1].Document.FileName)

	var unsupported *ingest.UnsupportedFileTypeError
	assert.ErrorAs(t, results[2].Err, &unsupported)
	assert.Equal(t, StageLoad, results[2].Stage)

	assert.Error(t, results[3].Err)
	assert.Nil(t, results[3].Session)

	assert.NotEqual(t, results[0].Session.ID, results[1].Session.ID)
}

func TestRunBatchStages(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "sales.csv", salesCSV)

	res := RunBatch([]string{good}, Options{}, nil, failingGenerator{})
	var rep *ReportError
	require.ErrorAs(t, res[0].Err, &rep)
	assert.Equal(t, StageReport, res[0].Stage)

	res = RunBatch([]string{good}, Options{}, func(s *Session) error {
		return s.Editor.Set("nope", "int64")
	}, report.Profiler{})
	var unknown *schema.UnknownColumnError
	require.ErrorAs(t, res[0].Err, &unknown)
	assert.Equal(t, StagePrepare, res[0].Stage)
}
