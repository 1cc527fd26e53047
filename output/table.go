package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/parq/record"
)

// WriteTable renders records as an aligned text table for terminals. Like
// the CSV encoder, columns come from the first record's keys. Nothing is
// written for an empty slice.
func WriteTable(w io.Writer, records []*record.Record) error {
	if len(records) == 0 {
		return nil
	}

	header := records[0].Keys()
	cells := NewTableEncoder(CSVOptions{})

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for n, rec := range records {
		row := make([]string, len(header))
		for i, col := range header {
			value, _ := rec.Get(col)
			cell, err := cells.formatValue(value)
			if err != nil {
				return fmt.Errorf("failed to format record %d column %q: %w", n+1, col, err)
			}
			row[i] = cell
		}
		table.Append(row)
	}
	table.Render()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}
