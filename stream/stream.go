// Package stream provides a pull-based abstraction over sequences of records.
//
// A Stream yields records one at a time through Next and signals exhaustion
// by returning io.EOF. Streams are single-pass: once exhausted they cannot be
// restarted. Every Stream must be closed to release the resources behind it.
package stream

import (
	"errors"
	"io"

	"github.com/vegasq/parq/record"
)

// Stream is a lazy, finite, single-pass sequence of records.
type Stream interface {
	// Next returns the next record, or io.EOF when the stream is exhausted.
	// Any other error is terminal.
	Next() (*record.Record, error)

	// Close releases resources held by the stream. It is safe to call Close
	// more than once and before the stream is exhausted.
	Close() error
}

// Collect drains s into memory and returns every record in order.
//
// The returned slice is never nil, so an empty stream yields an empty slice.
// Collect does not close s.
func Collect(s Stream) ([]*record.Record, error) {
	records := make([]*record.Record, 0)
	for {
		rec, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, err
		}
		records = append(records, rec)
	}
}

// FromSlice returns a stream over records. Mostly useful in tests and for
// feeding in-memory data, such as schema listings, to an encoder.
func FromSlice(records []*record.Record) Stream {
	return &sliceStream{records: records}
}

type sliceStream struct {
	records []*record.Record
	pos     int
}

func (s *sliceStream) Next() (*record.Record, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

func (s *sliceStream) Close() error {
	s.pos = len(s.records)
	return nil
}

// Limit returns a stream that yields at most n records from s. Closing the
// returned stream closes s.
func Limit(s Stream, n int) Stream {
	return &limitStream{src: s, remaining: n}
}

type limitStream struct {
	src       Stream
	remaining int
}

func (l *limitStream) Next() (*record.Record, error) {
	if l.remaining <= 0 {
		return nil, io.EOF
	}
	rec, err := l.src.Next()
	if err != nil {
		return nil, err
	}
	l.remaining--
	return rec, nil
}

func (l *limitStream) Close() error {
	return l.src.Close()
}
