package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/parq/internal/parqtest"
)

func TestExtractSchemaInfo_PrimitiveTypes(t *testing.T) {
	type Row struct {
		ID       int64   `parquet:"id"`
		Name     string  `parquet:"name"`
		Age      int32   `parquet:"age"`
		Score    float64 `parquet:"score"`
		Ratio    float32 `parquet:"ratio"`
		Active   bool    `parquet:"active"`
		Optional *string `parquet:"optional,optional"`
	}

	opt := "x"
	path := parqtest.Write(t, t.TempDir(), "types.parquet", []Row{
		{ID: 1, Name: "alice", Age: 30, Score: 1.5, Ratio: 0.5, Active: true, Optional: &opt},
	})

	infos, err := ExtractSchemaInfo(path)
	require.NoError(t, err)

	want := []struct {
		name     string
		typ      string
		physical string
		optional bool
	}{
		{"id", "INT64", "INT64", false},
		{"name", "STRING", "BYTE_ARRAY", false},
		{"age", "INT32", "INT32", false},
		{"score", "FLOAT64", "DOUBLE", false},
		{"ratio", "FLOAT32", "FLOAT", false},
		{"active", "BOOLEAN", "BOOLEAN", false},
		{"optional", "STRING", "BYTE_ARRAY", true},
	}

	require.Len(t, infos, len(want))
	for i, w := range want {
		got := infos[i]
		assert.Equal(t, w.name, got.Name, "field %d name", i)
		assert.Equal(t, w.typ, got.Type, "%s type", w.name)
		assert.Equal(t, w.physical, got.PhysicalType, "%s physical type", w.name)
		assert.Equal(t, w.optional, got.Optional, "%s optional", w.name)
		assert.Equal(t, !w.optional, got.Required, "%s required", w.name)
	}
}

func TestExtractSchemaInfo_NestedAndRepeated(t *testing.T) {
	type Address struct {
		Street string `parquet:"street"`
		City   string `parquet:"city"`
	}
	type Row struct {
		ID      int64    `parquet:"id"`
		Address Address  `parquet:"address"`
		Tags    []string `parquet:"tags"`
	}

	path := parqtest.Write(t, t.TempDir(), "nested.parquet", []Row{
		{ID: 1, Address: Address{Street: "Main", City: "Springfield"}, Tags: []string{"a"}},
	})

	infos, err := ExtractSchemaInfo(path)
	require.NoError(t, err)

	byName := make(map[string]SchemaInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}

	for _, name := range []string{"id", "address.street", "address.city"} {
		assert.Contains(t, byName, name)
	}
	assert.NotContains(t, byName, "address", "group fields should not be listed")
	if info, ok := byName["tags"]; ok {
		assert.True(t, info.Repeated, "tags should be repeated")
	}
}

func TestSchemaInfo_Record(t *testing.T) {
	info := SchemaInfo{Name: "id", Type: "INT64", PhysicalType: "INT64", Required: true}
	rec := info.Record()

	assert.Equal(t,
		[]string{"name", "type", "physical_type", "logical_type", "required", "optional", "repeated"},
		rec.Keys())
	v, _ := rec.Get("required")
	assert.Equal(t, true, v)
}
