package output

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/parq/stream"
)

// ArrayEncoder writes all records as a single compact JSON array.
//
// The whole stream is buffered in memory before anything is written, and
// the array is written with a single call, so a failing source produces no
// output at all. An empty stream produces "[]".
type ArrayEncoder struct{}

// NewArrayEncoder creates a JSON array encoder.
func NewArrayEncoder() *ArrayEncoder {
	return &ArrayEncoder{}
}

// Encode buffers s and writes it as one JSON array.
func (e *ArrayEncoder) Encode(s stream.Stream, w io.Writer) (int, error) {
	records, err := stream.Collect(s)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("failed to encode JSON array: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("failed to write JSON array: %w", err)
	}
	return len(records), nil
}
