package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/parq/stream"
)

// LineEncoder writes records as JSON Lines.
//
// Each record is serialised and written, newline terminated, before the
// next one is pulled from the stream, so memory use does not grow with the
// number of records. An empty stream produces no output.
type LineEncoder struct{}

// NewLineEncoder creates a JSON Lines encoder.
func NewLineEncoder() *LineEncoder {
	return &LineEncoder{}
}

// Encode writes one line per record.
func (e *LineEncoder) Encode(s stream.Stream, w io.Writer) (int, error) {
	written := 0
	for {
		rec, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return written, nil
			}
			return written, err
		}

		line, err := json.Marshal(rec)
		if err != nil {
			return written, fmt.Errorf("failed to encode record %d: %w", written+1, err)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return written, fmt.Errorf("failed to write record %d: %w", written+1, err)
		}
		written++
	}
}
