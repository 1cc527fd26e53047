package output

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/record"
	"github.com/vegasq/parq/stream"
)

func TestTableEncoder_HeaderFromFirstRecord(t *testing.T) {
	records := []*record.Record{
		rec("id", int64(1), "name", "a"),
		rec("id", int64(2), "name", "b"),
	}

	w := &recordingWriter{}
	n, err := NewTableEncoder(CSVOptions{}).Encode(stream.FromSlice(records), w)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, w.writes, "CSV should be written with a single call")
	assert.Equal(t, "id,name\n1,a\n2,b\n", w.String())
}

func TestTableEncoder_KeepsRecordKeyOrder(t *testing.T) {
	records := []*record.Record{
		rec("zeta", int64(1), "alpha", int64(2), "mid", int64(3)),
	}

	var buf bytes.Buffer
	_, err := NewTableEncoder(CSVOptions{}).Encode(stream.FromSlice(records), &buf)
	require.NoError(t, err)
	assert.Equal(t, "zeta,alpha,mid", strings.SplitN(buf.String(), "\n", 2)[0])
}

func TestTableEncoder_HeterogeneousRecords(t *testing.T) {
	records := []*record.Record{
		rec("id", int64(1), "name", "alice", "age", int64(30)),
		rec("id", int64(2), "age", int64(25)),                    // missing name
		rec("name", "carol", "extra", "dropped", "id", int64(3)), // extra key, other order
		rec("unrelated", true),                                   // nothing in common
	}

	var buf bytes.Buffer
	n, err := NewTableEncoder(CSVOptions{}).Encode(stream.FromSlice(records), &buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "id,name,age\n1,alice,30\n2,,25\n3,carol,\n,,\n", buf.String())
}

func TestTableEncoder_EmptyStream(t *testing.T) {
	w := &recordingWriter{}
	n, err := NewTableEncoder(CSVOptions{}).Encode(stream.FromSlice(nil), w)
	require.ErrorIs(t, err, parqerrors.ErrEmptyStream)
	assert.Zero(t, n)
	assert.Zero(t, w.writes)
	assert.Zero(t, w.Len())
}

func TestTableEncoder_SourceErrorWritesNothing(t *testing.T) {
	src := &brokenStream{good: []*record.Record{rec("id", int64(1))}}

	w := &recordingWriter{}
	_, err := NewTableEncoder(CSVOptions{}).Encode(src, w)
	require.ErrorIs(t, err, errCorrupt)
	assert.Zero(t, w.Len())
}

func TestTableEncoder_Quoting(t *testing.T) {
	records := []*record.Record{
		rec("text", "plain"),
		rec("text", "a,b"),
		rec("text", `say "hi"`),
		rec("text", "two\nlines"),
	}

	var buf bytes.Buffer
	_, err := NewTableEncoder(CSVOptions{}).Encode(stream.FromSlice(records), &buf)
	require.NoError(t, err)

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err, "output is not valid CSV")

	want := []string{"text", "plain", "a,b", `say "hi"`, "two\nlines"}
	require.Len(t, parsed, len(want))
	for i := range want {
		assert.Equal(t, want[i], parsed[i][0], "row %d", i)
	}
}

func TestTableEncoder_CRLF(t *testing.T) {
	var buf bytes.Buffer
	records := []*record.Record{rec("id", int64(1))}
	_, err := NewTableEncoder(CSVOptions{UseCRLF: true}).Encode(stream.FromSlice(records), &buf)
	require.NoError(t, err)
	assert.Equal(t, "id\r\n1\r\n", buf.String())
}

func TestTableEncoder_ValueFormatting(t *testing.T) {
	tests := []struct {
		name  string
		value record.Value
		want  string
	}{
		{"nil", nil, ""},
		{"string", "alice", "alice"},
		{"int", int64(-42), "-42"},
		{"float", 95.5, "95.5"},
		{"whole float", 2.0, "2.0"},
		{"large whole float", 1000000.0, "1000000.0"},
		{"negative zero", math.Copysign(0, -1), "-0.0"},
		{"tiny float", 1e-9, "1e-09"},
		{"huge float", 1e22, "1e+22"},
		{"nan", math.NaN(), ""},
		{"positive infinity", math.Inf(1), ""},
		{"negative infinity", math.Inf(-1), ""},
		{"bool", true, "true"},
		{"list", []record.Value{int64(1), "a", 3.0}, `[1,"a",3.0]`},
		{"nested", rec("k", "v", "f", 4.0), `{"k":"v","f":4.0}`},
	}

	enc := NewTableEncoder(CSVOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.formatValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableEncoder_NonFiniteFloatsLeaveEmptyCells(t *testing.T) {
	records := []*record.Record{
		rec("a", int64(1), "b", 2.0),
		rec("a", math.NaN(), "b", math.Inf(-1)),
	}

	var buf bytes.Buffer
	n, err := NewTableEncoder(CSVOptions{}).Encode(stream.FromSlice(records), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "a,b\n1,2.0\n,\n", buf.String())
}

func TestTableEncoder_Sanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"=SUM(A1:A2)", "'=SUM(A1:A2)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"|pipe", "'|pipe"},
		{"='quoted'", "'=''quoted''"},
		{"safe", "safe"},
		{"", ""},
	}

	sanitizing := NewTableEncoder(CSVOptions{Sanitize: true})
	plain := NewTableEncoder(CSVOptions{})
	for _, tt := range tests {
		got, err := sanitizing.formatValue(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "sanitized %q", tt.in)

		got, err = plain.formatValue(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.in, got, "unsanitized %q", tt.in)
	}
}

func TestWriteTable(t *testing.T) {
	records := []*record.Record{
		rec("name", "id", "type", "INT64", "required", true),
		rec("name", "tags", "type", "STRING", "required", false),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records))

	out := buf.String()
	for _, want := range []string{"name", "type", "required", "INT64", "STRING", "tags", "true", "false"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	require.NoError(t, WriteTable(&buf, nil))
	assert.Zero(t, buf.Len())
}
