package arrowio

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/autoeda-cli/internal/frame"
)

func typedFrame() *frame.Frame {
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	return &frame.Frame{Name: "sales.csv", Columns: []*frame.Column{
		frame.NewInt64("id", []int64{1, 2, 3}),
		frame.NewFloat64("amount", []float64{10.5, math.NaN(), 7}),
		frame.NewTimestamp("date", []time.Time{day, day.AddDate(0, 0, 1), {}}, []bool{true, true, false}),
		frame.NewCategory("region", []int32{1, -1, 0}, []string{"east", "west"}),
		frame.NewText("note", frame.String, []string{"a", "", "c"}, []bool{true, false, true}),
		frame.NewBool("flag", []bool{true, false, true}),
	}}
}

func TestSchemaTypes(t *testing.T) {
	s, err := Schema(typedFrame())
	require.NoError(t, err)
	require.Equal(t, 6, s.NumFields())
	assert.Equal(t, arrow.INT64, s.Field(0).Type.ID())
	assert.Equal(t, arrow.FLOAT64, s.Field(1).Type.ID())
	assert.Equal(t, arrow.TIMESTAMP, s.Field(2).Type.ID())
	assert.Equal(t, arrow.DICTIONARY, s.Field(3).Type.ID())
	assert.Equal(t, arrow.STRING, s.Field(4).Type.ID())
	assert.Equal(t, arrow.BOOL, s.Field(5).Type.ID())
}

func TestSchemaRejectsInvalidStorage(t *testing.T) {
	f := &frame.Frame{Columns: []*frame.Column{{Name: "x"}}}
	_, err := Schema(f)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, typedFrame()))

	r, err := ipc.NewFileReader(bytes.NewReader(buf.Bytes()), ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer r.Close()
	require.Equal(t, 1, r.NumRecords())

	rec, err := r.Record(0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, rec.NumRows())

	ids := rec.Column(0).(*array.Int64)
	assert.Equal(t, int64(3), ids.Value(2))

	amounts := rec.Column(1).(*array.Float64)
	assert.True(t, amounts.IsNull(1))
	assert.Equal(t, 10.5, amounts.Value(0))

	dates := rec.Column(2).(*array.Timestamp)
	assert.True(t, dates.IsNull(2))
	assert.Equal(t, arrow.Timestamp(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC).UnixNano()), dates.Value(0))

	region := rec.Column(3).(*array.Dictionary)
	assert.True(t, region.IsNull(1))
	assert.Equal(t, 1, region.GetValueIndex(0))
	assert.Equal(t, "west", region.Dictionary().(*array.String).Value(1))

	notes := rec.Column(4).(*array.String)
	assert.True(t, notes.IsNull(1))
	assert.Equal(t, "c", notes.Value(2))
}
