package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/internal/parqtest"
)

// TestRow defines a simple test data structure
type TestRow struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Age    int64   `parquet:"age"`
	Salary float64 `parquet:"salary"`
}

// createTestParquetFile creates a parquet file with test data in dir
func createTestParquetFile(t *testing.T, dir, filename string, rows []TestRow) string {
	t.Helper()
	return parqtest.Write(t, dir, filename, rows)
}

// setup isolates the test from user config and returns a temp dir holding
// people.parquet (3 rows) and more.parquet (1 row).
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{"PARQ_LOG_LEVEL", "PARQ_COMPRESSION", "PARQ_CSV_SANITIZE", "PARQ_MAX_FILES"} {
		t.Setenv(key, "")
	}
	t.Chdir(dir)

	createTestParquetFile(t, dir, "people.parquet", []TestRow{
		{ID: 1, Name: "Alice", Age: 30, Salary: 50000.0},
		{ID: 2, Name: "Bob", Age: 25, Salary: 45000.5},
		{ID: 3, Name: "Charlie", Age: 35, Salary: 60000.0},
	})
	createTestParquetFile(t, dir, "more.parquet", []TestRow{
		{ID: 4, Name: "=SUM(A1)", Age: 41, Salary: 0},
	})
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer

	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.Execute()

	return out.String(), errOut.String(), err
}

func TestConvert_JSONL(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, "convert", "-i", "people.parquet", "-f", "jsonl")
	require.NoError(t, err)

	want := `{"id":1,"name":"Alice","age":30,"salary":50000.0}` + "\n" +
		`{"id":2,"name":"Bob","age":25,"salary":45000.5}` + "\n" +
		`{"id":3,"name":"Charlie","age":35,"salary":60000.0}` + "\n"
	assert.Equal(t, want, stdout)
}

func TestConvert_FormatCaseInsensitive(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, "convert", "-i", "people.parquet", "--format", "JSON")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "[{") && strings.HasSuffix(stdout, "}]"),
		"expected a JSON array, got %q", stdout)
}

func TestConvert_CSVToFile(t *testing.T) {
	dir := setup(t)
	target := filepath.Join(dir, "out.csv")

	stdout, _, err := execute(t, "convert", "-i", "people.parquet", "-i", "more.parquet", "-f", "csv", "-o", target, "--csv-line-ending", "lf")
	require.NoError(t, err)
	assert.Empty(t, stdout, "nothing should go to stdout when -o is set")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	want := "id,name,age,salary\n" +
		"1,Alice,30,50000.0\n" +
		"2,Bob,25,45000.5\n" +
		"3,Charlie,35,60000.0\n" +
		"4,=SUM(A1),41,0.0\n"
	assert.Equal(t, want, string(data))
}

func TestConvert_CSVSanitizeFromConfig(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".parq.yaml"), []byte("csv:\n  sanitize: true\n  line_ending: lf\n"), 0o644))

	stdout, _, err := execute(t, "convert", "-i", "more.parquet", "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "'=SUM(A1)", "formula cell should be sanitised")

	// the flag wins over the config file
	stdout, _, err = execute(t, "convert", "-i", "more.parquet", "-f", "csv", "--csv-sanitize=false")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "'=SUM(A1)")
}

func TestConvert_GlobAndFilename(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, "convert", "-i", "*.parquet", "-f", "jsonl", "--with-filename")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 4)
	// more.parquet sorts before people.parquet
	assert.True(t, strings.HasSuffix(lines[0], `"_file":"more.parquet"}`), "first line = %s", lines[0])
	assert.True(t, strings.HasSuffix(lines[3], `"_file":"people.parquet"}`), "last line = %s", lines[3])
}

func TestConvert_WhereAndLimit(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, "convert", "-i", "people.parquet", "-f", "jsonl", "--where", "age >= 30", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"Alice","age":30,"salary":50000.0}`+"\n", stdout)
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{"missing format", []string{"convert", "-i", "people.parquet"}, parqerrors.ErrInvalidInput, 2},
		{"missing input", []string{"convert", "-f", "jsonl"}, parqerrors.ErrInvalidInput, 2},
		{"unsupported format", []string{"convert", "-i", "people.parquet", "-f", "xml"}, nil, 2},
		{"missing file", []string{"convert", "-i", "nope.parquet", "-f", "jsonl"}, parqerrors.ErrInvalidInput, 2},
		{"unmatched glob", []string{"convert", "-i", "*.csv", "-f", "jsonl"}, parqerrors.ErrInvalidInput, 2},
		{"negative limit", []string{"convert", "-i", "people.parquet", "-f", "jsonl", "--limit", "-1"}, parqerrors.ErrInvalidInput, 2},
		{"bad where", []string{"convert", "-i", "people.parquet", "-f", "jsonl", "--where", "age >"}, parqerrors.ErrInvalidInput, 2},
		{"bad compression", []string{"convert", "-i", "people.parquet", "-f", "jsonl", "--compress", "zip"}, parqerrors.ErrInvalidInput, 2},
		{"bad log level", []string{"--log-level", "loud", "convert", "-i", "people.parquet", "-f", "jsonl"}, parqerrors.ErrInvalidInput, 2},
		{"unknown flag", []string{"convert", "--bogus"}, parqerrors.ErrInvalidInput, 2},
		{"output is input", []string{"convert", "-i", "people.parquet", "-f", "csv", "-o", "people.parquet"}, parqerrors.ErrInvalidInput, 2},
		{"unwritable output", []string{"convert", "-i", "people.parquet", "-f", "jsonl", "-o", "missing-dir/out.jsonl"}, parqerrors.ErrSink, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCode, parqerrors.ExitCode(err), "error: %v", err)
		})
	}
}

func TestConvert_InvalidEnvironment(t *testing.T) {
	setup(t)
	t.Setenv("PARQ_CSV_SANITIZE", "ture")

	_, _, err := execute(t, "convert", "-i", "people.parquet", "-f", "csv")
	require.ErrorIs(t, err, parqerrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "PARQ_CSV_SANITIZE")
	assert.Equal(t, 2, parqerrors.ExitCode(err))
}

func TestConvert_DecodeErrorExitCode(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.parquet"), []byte("not parquet at all"), 0o644))

	stdout, _, err := execute(t, "convert", "-i", "people.parquet", "-i", "broken.parquet", "-f", "jsonl")
	require.ErrorIs(t, err, parqerrors.ErrSourceDecode)
	assert.Equal(t, 3, parqerrors.ExitCode(err))
	assert.Equal(t, 3, strings.Count(stdout, "\n"), "records of the first file should be streamed before the failure")
}

func TestConvert_EmptyCSV(t *testing.T) {
	dir := setup(t)
	createTestParquetFile(t, dir, "empty.parquet", nil)

	stdout, _, err := execute(t, "convert", "-i", "empty.parquet", "-f", "csv")
	require.ErrorIs(t, err, parqerrors.ErrEmptyStream)
	assert.Equal(t, 4, parqerrors.ExitCode(err))
	assert.Empty(t, stdout)
}

func TestConvert_DebugLogging(t *testing.T) {
	setup(t)

	_, stderr, err := execute(t, "--log-level", "debug", "convert", "-i", "people.parquet", "-f", "jsonl")
	require.NoError(t, err)
	for _, want := range []string{"opened source", "closed source", "records=3", "run="} {
		assert.Contains(t, stderr, want)
	}
}

func TestConvert_QuietByDefault(t *testing.T) {
	setup(t)

	_, stderr, err := execute(t, "convert", "-i", "people.parquet", "-f", "jsonl")
	require.NoError(t, err)
	assert.Empty(t, stderr, "expected no log output at the default level")
}

func TestSchema(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, "schema", "-i", "people.parquet")
	require.NoError(t, err)
	for _, want := range []string{"name", "physical_type", "id", "salary", "INT64", "DOUBLE"} {
		assert.Contains(t, stdout, want)
	}

	stdout, _, err = execute(t, "schema", "-i", "people.parquet", "-f", "jsonl")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], `{"name":"id",`), "first column = %s", lines[0])
}

func TestSchema_Errors(t *testing.T) {
	setup(t)

	_, _, err := execute(t, "schema")
	assert.ErrorIs(t, err, parqerrors.ErrInvalidInput)

	_, _, err = execute(t, "schema", "-i", "people.parquet", "-f", "yaml")
	assert.ErrorIs(t, err, parqerrors.ErrUnsupportedFormat)
}

func TestVersion(t *testing.T) {
	setup(t)

	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "parq version dev")
}
