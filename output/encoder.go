package output

import (
	"fmt"
	"io"
	"runtime"

	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/stream"
)

// Encoder consumes a record stream and writes it to w in one output format.
//
// Encode returns the number of records written. It does not close the
// stream or the writer.
type Encoder interface {
	Encode(s stream.Stream, w io.Writer) (int, error)
}

// Options tunes the encoders. Only the CSV encoder currently has options.
type Options struct {
	CSV CSVOptions
}

// CSVOptions configures the CSV encoder.
type CSVOptions struct {
	// UseCRLF terminates rows with \r\n instead of \n.
	UseCRLF bool

	// Sanitize prefixes string cells starting with a formula character with
	// a single quote so spreadsheet applications do not evaluate them.
	Sanitize bool
}

// DefaultOptions returns options with the platform line terminator.
func DefaultOptions() Options {
	return Options{
		CSV: CSVOptions{UseCRLF: runtime.GOOS == "windows"},
	}
}

// encoders maps every Format to its encoder constructor.
var encoders = [numFormats]func(Options) Encoder{
	JSONL: func(Options) Encoder { return NewLineEncoder() },
	JSON:  func(Options) Encoder { return NewArrayEncoder() },
	CSV:   func(o Options) Encoder { return NewTableEncoder(o.CSV) },
}

// NewEncoder returns the encoder for f.
func NewEncoder(f Format, opts Options) (Encoder, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %s", parqerrors.ErrUnsupportedFormat, f)
	}
	return encoders[f](opts), nil
}

// Streaming reports whether f is written incrementally, one record at a
// time, rather than after the whole stream has been buffered.
func (f Format) Streaming() bool {
	return f == JSONL
}
