package reader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/parq/internal/parqtest"
	"github.com/vegasq/parq/record"
	"github.com/vegasq/parq/stream"
)

func readAll(t *testing.T, s stream.Stream) []*record.Record {
	t.Helper()
	records, err := stream.Collect(s)
	require.NoError(t, err)
	return records
}

var users = parqtest.Users[:3]

func TestReader_Next(t *testing.T) {
	path := parqtest.Write(t, t.TempDir(), "users.parquet", users)

	r, err := NewReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, int64(3), r.NumRows())

	records := readAll(t, r)
	require.Len(t, records, 3)
	assert.Equal(t, int64(3), r.Count())

	for i, rec := range records {
		assert.Equal(t, []string{"id", "name", "age", "active", "score"}, rec.Keys(), "record %d", i)
	}

	first := records[0]
	checks := map[string]record.Value{
		"id":     int64(1),
		"name":   "alice",
		"age":    int64(30),
		"active": true,
		"score":  95.5,
	}
	for key, want := range checks {
		got, ok := first.Get(key)
		require.True(t, ok, "missing key %q", key)
		assert.Equal(t, want, got, "key %q", key)
	}

	// exhausted readers keep reporting io.EOF
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_WholeDoubleStaysFloat(t *testing.T) {
	type priced struct {
		Price float64 `parquet:"price"`
	}
	path := parqtest.Write(t, t.TempDir(), "prices.parquet", []priced{{Price: 2}})

	r, err := NewReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	records := readAll(t, r)
	require.Len(t, records, 1)
	price, _ := records[0].Get("price")
	assert.Equal(t, 2.0, price)

	data, err := records[0].MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"price":2.0}`, string(data))
}

func TestReader_WithFileColumn(t *testing.T) {
	path := parqtest.Write(t, t.TempDir(), "users.parquet", users[:1])

	r, err := NewReader(path, WithFileColumn(FileColumn))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	records := readAll(t, r)
	require.Len(t, records, 1)

	keys := records[0].Keys()
	assert.Equal(t, FileColumn, keys[len(keys)-1])
	got, _ := records[0].Get(FileColumn)
	assert.Equal(t, path, got)
}

func TestReader_CloseIsIdempotent(t *testing.T) {
	path := parqtest.Write(t, t.TempDir(), "users.parquet", users)

	r, err := NewReader(path)
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)

	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewReader_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewReader(filepath.Join(dir, "missing.parquet"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.parquet")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not parquet"), 0o644))
	_, err = NewReader(garbage)
	assert.Error(t, err)
}

func TestOpener_ChainsFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := parqtest.Write(t, dir, "b.parquet", users[:2])
	second := parqtest.Write(t, dir, "a.parquet", users[2:])

	chain := stream.NewChain(
		Opener(first, WithFileColumn(FileColumn)),
		Opener(second, WithFileColumn(FileColumn)),
	)
	defer func() { _ = chain.Close() }()

	records := readAll(t, chain)
	require.Len(t, records, 3)

	wantIDs := []int64{1, 2, 3}
	wantFiles := []string{first, first, second}
	for i, rec := range records {
		id, _ := rec.Get("id")
		assert.Equal(t, wantIDs[i], id, "record %d id", i)
		file, _ := rec.Get(FileColumn)
		assert.Equal(t, wantFiles[i], file, "record %d file", i)
	}
}
