package coerce

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
	"github.com/KaramelBytes/autoeda-cli/internal/schema"
)

func text(name string, vals ...string) *frame.Column {
	valid := make([]bool, len(vals))
	for i, v := range vals {
		valid[i] = v != ""
	}
	return frame.NewText(name, frame.String, vals, valid)
}

func decl(t *testing.T, pairs ...string) *schema.Declaration {
	t.Helper()
	var entries []schema.Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		d, err := schema.ParseDeclaredType(pairs[i+1])
		require.NoError(t, err)
		entries = append(entries, schema.Entry{Column: pairs[i], Type: d})
	}
	d, err := schema.NewDeclaration(entries...)
	require.NoError(t, err)
	return d
}

func salesFrame(amount ...string) *frame.Frame {
	return &frame.Frame{Name: "sales.csv", Columns: []*frame.Column{
		frame.NewInt64("id", []int64{1, 2, 3}),
		text("amount", amount...),
		text("date", "2023-01-01", "2023-01-02", "2023-01-03"),
	}}
}

func TestSalesScenarioFailsOnAmount(t *testing.T) {
	raw := salesFrame("10.5", "20.0", "bad")
	_, err := Apply(raw, decl(t, "id", "int64", "amount", "float64", "date", "datetime"))

	var cast *CastError
	require.ErrorAs(t, err, &cast)
	assert.Equal(t, "amount", cast.Column)
	assert.Equal(t, "bad", cast.Value)
	assert.Equal(t, frame.String, cast.From)
	assert.Equal(t, schema.Float64, cast.To)
	assert.Contains(t, err.Error(), "amount")

	var ce *CoercionError
	assert.ErrorAs(t, err, &ce, "CastError must also match the base type")
	var tpe *TemporalParseError
	assert.False(t, errors.As(err, &tpe))
}

func TestSalesScenarioSucceeds(t *testing.T) {
	raw := salesFrame("10.5", "20.0", "30")
	d := decl(t, "id", "int64", "amount", "float64", "date", "datetime")
	typed, err := Apply(raw, d)
	require.NoError(t, err)
	assert.True(t, d.Satisfied(typed))

	amount, _ := typed.Column("amount")
	assert.Equal(t, []float64{10.5, 20, 30}, amount.Floats)
	date, _ := typed.Column("date")
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), date.Times[1])

	tax, err := schema.Taxonomy(d)
	require.NoError(t, err)
	assert.Equal(t, map[string]schema.TaxonomyCategory{
		"id":     schema.TaxonomyNumeric,
		"amount": schema.TaxonomyNumeric,
		"date":   schema.TaxonomyDatetime,
	}, tax)

	src, _ := raw.Column("amount")
	assert.Equal(t, frame.String, src.Type, "raw frame is left untouched")
}

func TestNumericStringsRoundTrip(t *testing.T) {
	c := text("n", "1", "2", "3")
	got, err := Column(c, schema.Int64)
	require.NoError(t, err)
	assert.Equal(t, frame.Int64, got.Type)
	assert.Equal(t, []int64{1, 2, 3}, got.Ints)

	_, err = Column(c, schema.Datetime)
	var tpe *TemporalParseError
	require.ErrorAs(t, err, &tpe)
	assert.Equal(t, 0, tpe.Row)
	assert.ErrorIs(t, err, ErrNotTemporal)
}

func TestDatetimeIsStrict(t *testing.T) {
	_, err := Column(text("d", "2023-01-01", "not-a-date"), schema.Datetime)
	var tpe *TemporalParseError
	require.ErrorAs(t, err, &tpe)
	assert.Equal(t, 1, tpe.Row)
	assert.Equal(t, "not-a-date", tpe.Value)
}

func TestDatetimeMixedFormatsAndNulls(t *testing.T) {
	got, err := Column(text("d", "2023-01-05", "01/06/2023", "", "2023-01-07T10:30:00Z", "13/01/2023", "Jan 8, 2023"), schema.Datetime)
	require.NoError(t, err)
	assert.True(t, got.IsNull(2))
	assert.Equal(t, time.January, got.Times[1].Month(), "slashed dates are month first")
	assert.Equal(t, 6, got.Times[1].Day())
	assert.Equal(t, 10, got.Times[3].Hour())
	assert.Equal(t, 13, got.Times[4].Day(), "day-first fallback")
	assert.Equal(t, 8, got.Times[5].Day())
}

func TestDatetimeOutOfNanosecondRange(t *testing.T) {
	for _, v := range []string{"9999-12-31", "1500-01-01"} {
		_, err := Column(text("d", "2023-01-01", v), schema.Datetime)
		var tpe *TemporalParseError
		require.ErrorAs(t, err, &tpe, v)
		assert.ErrorIs(t, err, ErrOutOfBounds, v)
		assert.Equal(t, 1, tpe.Row, v)
	}

	got, err := Column(text("d", "1677-09-22", "2262-04-11"), schema.Datetime)
	require.NoError(t, err)
	assert.Equal(t, 1677, got.Times[0].Year())
	assert.Equal(t, 2262, got.Times[1].Year())
}

func TestNumericSourceIsNotEpoch(t *testing.T) {
	_, err := Column(frame.NewInt64("n", []int64{1, 2}), schema.Datetime)
	var tpe *TemporalParseError
	require.ErrorAs(t, err, &tpe)
	assert.ErrorIs(t, err, ErrNumericTemporal)
}

func TestIntCastRules(t *testing.T) {
	_, err := Column(text("n", "1", "1.5"), schema.Int64)
	var cast *CastError
	require.ErrorAs(t, err, &cast)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = Column(text("n", "99999999999999999999"), schema.Int64)
	assert.ErrorIs(t, err, strconv.ErrRange)

	_, err = Column(text("n", "1", ""), schema.Int64)
	assert.ErrorIs(t, err, ErrNull)

	got, err := Column(frame.NewFloat64("f", []float64{1.9, -2.7}), schema.Int64)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2}, got.Ints, "floats truncate toward zero")

	_, err = Column(frame.NewFloat64("f", []float64{math.Inf(1)}), schema.Int64)
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = Column(frame.NewFloat64("f", []float64{1e19}), schema.Int64)
	assert.ErrorIs(t, err, ErrOverflow)

	got, err = Column(frame.NewBool("b", []bool{true, false}), schema.Int64)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0}, got.Ints)
}

func TestFloatCastRules(t *testing.T) {
	got, err := Column(text("f", " 1.5 ", "", "nan", "1e400"), schema.Float64)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.Floats[0])
	assert.True(t, got.IsNull(1))
	assert.True(t, got.IsNull(2))
	assert.True(t, math.IsInf(got.Floats[3], 1))

	d := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = Column(frame.NewTimestamp("t", []time.Time{d}, []bool{true}), schema.Float64)
	var cast *CastError
	require.ErrorAs(t, err, &cast)
	assert.ErrorIs(t, err, ErrUnsupportedCast)
}

func TestBoolCastRules(t *testing.T) {
	got, err := Column(text("b", "True", "no", "1"), schema.Bool)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, got.Bools)

	_, err = Column(text("b", "maybe"), schema.Bool)
	assert.ErrorIs(t, err, ErrNotBoolean)

	got, err = Column(frame.NewFloat64("f", []float64{0, math.NaN()}), schema.Bool)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, got.Bools)
}

func TestStringRendering(t *testing.T) {
	got, err := Column(frame.NewFloat64("f", []float64{20, math.NaN()}), schema.String)
	require.NoError(t, err)
	assert.Equal(t, "20.0", got.Texts[0])
	assert.True(t, got.IsNull(1))

	d := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err = Column(frame.NewTimestamp("t", []time.Time{d, d.AddDate(0, 0, 1)}, []bool{true, true}), schema.String)
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-01-01", "2023-01-02"}, got.Texts)

	got, err = Column(frame.NewBool("b", []bool{true}), schema.String)
	require.NoError(t, err)
	assert.Equal(t, "True", got.Texts[0])
}

func TestCategoryEncoding(t *testing.T) {
	got, err := Column(text("c", "b", "a", "", "b"), schema.Category)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Levels)
	assert.Equal(t, []int32{1, 0, -1, 1}, got.Codes)

	got, err = Column(frame.NewInt64("n", []int64{10, 2, 10}), schema.Category)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "10"}, got.Levels, "numeric sources sort by value")
	assert.Equal(t, []int32{1, 0, 1}, got.Codes)

	back, err := Column(got, schema.Int64)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 2, 10}, back.Ints)
}

func TestIdempotentOnSatisfiedDeclaration(t *testing.T) {
	raw := salesFrame("1", "2", "3")
	d := decl(t, "id", "int64", "amount", "float64", "date", "datetime")
	typed, err := Apply(raw, d)
	require.NoError(t, err)

	again, err := Apply(typed, d)
	require.NoError(t, err)
	assert.Equal(t, typed.Types(), again.Types())
	assert.Equal(t, typed.Columns[1].Floats, again.Columns[1].Floats)
}

func TestFailFastInDeclarationOrder(t *testing.T) {
	raw := &frame.Frame{Columns: []*frame.Column{text("a", "x"), text("b", "y")}}
	_, err := Apply(raw, decl(t, "b", "int64", "a", "int64"))
	var ce *CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "b", ce.Column)
}

func TestUnknownColumn(t *testing.T) {
	raw := salesFrame("1", "2", "3")
	_, err := Apply(raw, decl(t, "nope", "int64"))
	var uce *schema.UnknownColumnError
	assert.ErrorAs(t, err, &uce)
}

func TestUndeclaredColumnsPassThrough(t *testing.T) {
	raw := salesFrame("1", "2", "3")
	typed, err := Apply(raw, decl(t, "amount", "int64"))
	require.NoError(t, err)
	date, _ := typed.Column("date")
	assert.Equal(t, frame.String, date.Type)
	assert.Equal(t, raw.Names(), typed.Names())
}
