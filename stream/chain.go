package stream

import (
	"errors"
	"fmt"
	"io"

	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/record"
)

// Opener opens a record source on demand.
type Opener func() (Stream, error)

// Chain concatenates several sources into one stream.
//
// Sources are opened lazily, immediately before their first record is
// requested, and closed as soon as they are exhausted, before the next one
// is opened. At most one source is open at any time, and records are never
// interleaved: every record of source k precedes every record of source k+1.
//
// A source that fails to open or decode terminates the whole chain. The
// failing source is closed, the error is wrapped with ErrSourceDecode and
// every later call to Next returns it.
type Chain struct {
	openers []Opener
	next    int
	current Stream
	err     error
	closed  bool
}

var _ Stream = (*Chain)(nil)

// NewChain creates a chain over openers, consumed in the given order.
func NewChain(openers ...Opener) *Chain {
	return &Chain{openers: openers}
}

// Next returns the next record of the current source, advancing to the
// following source when the current one is exhausted.
func (c *Chain) Next() (*record.Record, error) {
	if c.err != nil {
		return nil, c.err
	}

	for {
		if c.current == nil {
			if c.closed || c.next >= len(c.openers) {
				return nil, io.EOF
			}
			open := c.openers[c.next]
			c.next++

			src, err := open()
			if err != nil {
				return nil, c.fail(err)
			}
			c.current = src
		}

		rec, err := c.current.Next()
		if err == nil {
			return rec, nil
		}

		closeErr := c.closeCurrent()
		if !errors.Is(err, io.EOF) {
			return nil, c.fail(err)
		}
		if closeErr != nil {
			return nil, c.fail(closeErr)
		}
	}
}

// Open reports whether a source is currently open.
func (c *Chain) Open() bool {
	return c.current != nil
}

// Close releases the currently open source, if any. Sources that were never
// opened are skipped.
func (c *Chain) Close() error {
	c.closed = true
	return c.closeCurrent()
}

func (c *Chain) closeCurrent() error {
	if c.current == nil {
		return nil
	}
	err := c.current.Close()
	c.current = nil
	return err
}

func (c *Chain) fail(err error) error {
	if errors.Is(err, parqerrors.ErrSourceDecode) {
		c.err = err
	} else {
		c.err = fmt.Errorf("%w: %w", parqerrors.ErrSourceDecode, err)
	}
	return c.err
}
