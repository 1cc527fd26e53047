package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	parqerrors "github.com/vegasq/parq/internal/errors"
)

// Sink is a write destination. Writes may be buffered until Close.
type Sink interface {
	io.Writer

	// Close flushes buffered data and releases the destination. It is safe
	// to call more than once.
	Close() error
}

// Option configures a sink.
type Option func(*config)

type config struct {
	compression Compression
	lineFlush   *bool
}

// WithCompression compresses everything written to the sink.
func WithCompression(c Compression) Option {
	return func(cfg *config) {
		cfg.compression = c
	}
}

// WithLineFlush flushes the buffer after every write that ends with a
// newline. Ignored when compressing.
func WithLineFlush(enabled bool) Option {
	return func(cfg *config) {
		cfg.lineFlush = &enabled
	}
}

// Writer is a buffered, optionally compressing Sink.
type Writer struct {
	name      string
	buf       *bufio.Writer
	encoder   io.WriteCloser
	closeFunc func() error
	lineFlush bool
	written   int64
	closed    bool
}

var _ Sink = (*Writer)(nil)

// Create opens path for writing, truncating any existing content. The file
// is closed by Close.
func Create(path string, opts ...Option) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create output file: %w", parqerrors.ErrSink, err)
	}

	w, err := newWriter(file, path, file.Close, opts)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return w, nil
}

// Stdout returns a sink writing to the process's standard output. Close
// flushes but never closes os.Stdout. Unless WithLineFlush says otherwise,
// output is flushed line by line when stdout is a terminal.
func Stdout(opts ...Option) *Writer {
	if isTerminal(os.Stdout) {
		opts = append([]Option{WithLineFlush(true)}, opts...)
	}
	w, err := newWriter(os.Stdout, "stdout", nil, opts)
	if err != nil {
		// compressors only fail to build on invalid options, and none are set
		panic(err)
	}
	return w
}

// NewWriter wraps an arbitrary io.Writer. name identifies the destination
// in error messages. The underlying writer is not closed.
func NewWriter(w io.Writer, name string, opts ...Option) (*Writer, error) {
	return newWriter(w, name, nil, opts)
}

func newWriter(dst io.Writer, name string, closeFunc func() error, opts []Option) (*Writer, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &Writer{
		name:      name,
		closeFunc: closeFunc,
	}

	encoder, err := cfg.compression.newEncoder(dst)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to set up %s compression for %s: %w",
			parqerrors.ErrSink, cfg.compression, name, err)
	}
	if encoder != nil {
		w.encoder = encoder
		w.buf = bufio.NewWriter(encoder)
	} else {
		w.buf = bufio.NewWriter(dst)
		w.lineFlush = cfg.lineFlush != nil && *cfg.lineFlush
	}
	return w, nil
}

// Write appends p to the sink.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("%w: write to closed %s", parqerrors.ErrSink, w.name)
	}

	n, err := w.buf.Write(p)
	w.written += int64(n)
	if err != nil {
		return n, fmt.Errorf("%w: failed to write %s: %w", parqerrors.ErrSink, w.name, err)
	}

	if w.lineFlush && len(p) > 0 && p[len(p)-1] == '\n' {
		if err := w.buf.Flush(); err != nil {
			return n, fmt.Errorf("%w: failed to flush %s: %w", parqerrors.ErrSink, w.name, err)
		}
	}
	return n, nil
}

// Written returns the number of uncompressed bytes accepted so far.
func (w *Writer) Written() int64 {
	return w.written
}

// Name returns the destination name used in error messages.
func (w *Writer) Name() string {
	return w.name
}

// Close flushes buffered data, finishes compression and closes the file.
// Every step runs even if an earlier one fails; the first error is
// returned.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var first error
	keep := func(step string, err error) {
		if err != nil && first == nil {
			first = fmt.Errorf("%w: failed to %s %s: %w", parqerrors.ErrSink, step, w.name, err)
		}
	}

	keep("flush", w.buf.Flush())
	if w.encoder != nil {
		keep("finish compressing", w.encoder.Close())
	}
	if w.closeFunc != nil {
		keep("close", w.closeFunc())
	}
	return first
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
