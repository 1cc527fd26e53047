package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/parq/record"
	"github.com/vegasq/parq/stream"
)

// FileColumn is the column name used by WithFileColumn callers that want the
// conventional name for the source path column.
const FileColumn = "_file"

// Reader reads a parquet file and yields its rows as records.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup. Rows are decoded on demand by Next; nothing is
// buffered beyond the current row.
type Reader struct {
	path       string
	file       *os.File
	pqFile     *parquet.File
	rows       *parquet.Reader
	fields     []parquet.Field
	fileColumn string
	count      int64
}

var _ stream.Stream = (*Reader)(nil)

// Option configures a Reader.
type Option func(*Reader)

// WithFileColumn appends a column with the given name holding the source
// path to every record.
func WithFileColumn(name string) Option {
	return func(r *Reader) {
		r.fileColumn = name
	}
}

// NewReader opens the parquet file at path.
//
// The file is opened and validated as a parquet file. Returns an error if
// the file doesn't exist or is not a valid parquet file.
//
// Example:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewReader(path string, opts ...Option) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}

	r := &Reader{
		path:   path,
		file:   file,
		pqFile: pqFile,
		fields: pqFile.Schema().Fields(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Opener returns a stream.Opener that opens path with NewReader, for use
// with stream.NewChain.
func Opener(path string, opts ...Option) stream.Opener {
	return func() (stream.Stream, error) {
		return NewReader(path, opts...)
	}
}

// Next decodes the next row. Returns io.EOF once every row has been read.
func (r *Reader) Next() (*record.Record, error) {
	if r.file == nil {
		return nil, io.EOF
	}
	if r.rows == nil {
		r.rows = parquet.NewReader(r.pqFile)
	}

	row := make(map[string]any)
	if err := r.rows.Read(&row); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read row %d of %s: %w", r.count+1, r.path, err)
	}
	r.count++

	rec, err := buildRecord(r.fields, row)
	if err != nil {
		return nil, fmt.Errorf("failed to convert row %d of %s: %w", r.count, r.path, err)
	}
	if r.fileColumn != "" {
		rec.Set(r.fileColumn, r.path)
	}
	return rec, nil
}

// Path returns the path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Count returns the number of rows decoded so far.
func (r *Reader) Count() int64 {
	return r.count
}

// NumRows returns the total number of rows in the file according to its
// metadata.
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Schema returns the parquet file schema.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close releases the row reader and the file handle. It is safe to call
// Close multiple times.
func (r *Reader) Close() error {
	var rowsErr error
	if r.rows != nil {
		rowsErr = r.rows.Close()
		r.rows = nil
	}
	if r.file == nil {
		return rowsErr
	}
	err := r.file.Close()
	r.file = nil
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", r.path, err)
	}
	return rowsErr
}

// buildRecord orders the columns of a decoded row by the schema fields.
// Columns missing from the schema, which the decoder should never produce,
// are appended in sorted order.
func buildRecord(fields []parquet.Field, row map[string]any) (*record.Record, error) {
	rec := record.New()
	seen := make(map[string]struct{}, len(fields))
	matched := 0

	for _, field := range fields {
		name := field.Name()
		seen[name] = struct{}{}
		v, ok := row[name]
		if !ok {
			continue
		}
		matched++
		value, err := fieldValue(field, v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		rec.Set(name, value)
	}

	if matched == len(row) {
		return rec, nil
	}

	extra := make([]string, 0, len(row))
	for name := range row {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		value, err := record.Normalize(row[name])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		rec.Set(name, value)
	}
	return rec, nil
}

// fieldValue converts a decoded value, keeping the schema order of nested
// groups. Lists apply their element field to each item, map values are
// converted with the map's value field and leaf values according to the
// column's logical type.
func fieldValue(field parquet.Field, v any) (record.Value, error) {
	children := field.Fields()
	lt := field.Type().LogicalType()

	switch x := v.(type) {
	case map[string]any:
		if lt != nil && lt.Map != nil {
			return mapValue(field, x)
		}
		if len(children) > 0 {
			return buildRecord(children, x)
		}
	case []any:
		elem := field
		if lt != nil && lt.List != nil {
			elem = listElement(field)
		}
		items := make([]record.Value, len(x))
		for i, item := range x {
			value, err := fieldValue(elem, item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = value
		}
		return items, nil
	}

	if len(children) == 0 {
		return leafValue(field.Type(), v)
	}
	return record.Normalize(v)
}

// listElement returns the element field of a LIST group, for both the
// three-level layout and the legacy two-level one.
func listElement(list parquet.Field) parquet.Field {
	children := list.Fields()
	if len(children) != 1 {
		return list
	}
	repeated := children[0]
	if inner := repeated.Fields(); len(inner) == 1 {
		return inner[0]
	}
	return repeated
}

// mapValue builds a record from a decoded MAP column. Keys are sorted since
// the decoder does not keep their file order.
func mapValue(field parquet.Field, m map[string]any) (record.Value, error) {
	var valueField parquet.Field
	if children := field.Fields(); len(children) == 1 {
		for _, kv := range children[0].Fields() {
			if kv.Name() == "value" {
				valueField = kv
			}
		}
	}
	if valueField == nil {
		return record.FromMap(m)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := record.New()
	for _, k := range keys {
		value, err := fieldValue(valueField, m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		rec.Set(k, value)
	}
	return rec, nil
}
