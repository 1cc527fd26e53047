package filter

import (
	"fmt"

	"github.com/vegasq/parq/record"
	"github.com/vegasq/parq/stream"
)

// Apply returns a stream yielding only the records of s that match expr.
// Records are tested one at a time as they are pulled, so streaming
// encoders keep their memory bound. An evaluation error ends the stream.
// Closing the returned stream closes s.
func Apply(s stream.Stream, expr Expression) stream.Stream {
	return &filtered{src: s, expr: expr}
}

type filtered struct {
	src  stream.Stream
	expr Expression
	seen int64
}

func (f *filtered) Next() (*record.Record, error) {
	for {
		rec, err := f.src.Next()
		if err != nil {
			return nil, err
		}
		f.seen++

		ok, err := f.expr.Match(rec)
		if err != nil {
			return nil, fmt.Errorf("filter record %d: %w", f.seen, err)
		}
		if ok {
			return rec, nil
		}
	}
}

func (f *filtered) Close() error {
	return f.src.Close()
}
