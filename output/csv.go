package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/record"
	"github.com/vegasq/parq/stream"
)

// TableEncoder writes records as CSV.
//
// The whole stream is buffered before anything is written. The header is
// the key list of the first record, in that record's order. Every record
// becomes one row with values taken in header order: keys missing from a
// record leave an empty cell and keys not in the header are dropped.
//
// An empty stream is an error wrapping ErrEmptyStream and writes nothing,
// since no header can be derived.
type TableEncoder struct {
	opts CSVOptions
}

// NewTableEncoder creates a CSV encoder.
func NewTableEncoder(opts CSVOptions) *TableEncoder {
	return &TableEncoder{opts: opts}
}

// Encode buffers s and writes it as one CSV document.
func (e *TableEncoder) Encode(s stream.Stream, w io.Writer) (int, error) {
	records, err := stream.Collect(s)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: no records to derive a CSV header from", parqerrors.ErrEmptyStream)
	}

	header := records[0].Keys()

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.UseCRLF = e.opts.UseCRLF

	if err := csvWriter.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(header))
	for n, rec := range records {
		for i, col := range header {
			value, ok := rec.Get(col)
			if !ok {
				row[i] = ""
				continue
			}
			cell, err := e.formatValue(value)
			if err != nil {
				return 0, fmt.Errorf("failed to encode record %d column %q: %w", n+1, col, err)
			}
			row[i] = cell
		}
		if err := csvWriter.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write CSV row %d: %w", n+1, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to write CSV: %w", err)
	}
	return len(records), nil
}

// formatValue converts a value to its CSV cell text. Floats follow the JSON
// rendering, so NaN and the infinities leave the cell empty. Nested records
// and lists are rendered as compact JSON.
func (e *TableEncoder) formatValue(v record.Value) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		if e.opts.Sanitize {
			return sanitizeCell(val), nil
		}
		return val, nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return record.FormatFloat(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		data, err := record.MarshalValue(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// sanitizeCell guards against CSV injection by quoting cells that would be
// read as a formula by spreadsheet applications.
func sanitizeCell(val string) string {
	if val == "" {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
