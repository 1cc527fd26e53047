// Package convert wires the pipeline together: one lazy parquet source per
// input, chained in order, optionally filtered and limited, encoded in the
// requested format and written to a sink.
package convert

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vegasq/parq/filter"
	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/output"
	"github.com/vegasq/parq/reader"
	"github.com/vegasq/parq/sink"
	"github.com/vegasq/parq/stream"
)

// Job describes one conversion.
type Job struct {
	// Inputs are parquet file paths, concatenated in this order. They are
	// not re-validated here.
	Inputs []string

	Format  output.Format
	Options output.Options

	// Output is the destination file. Empty or "-" means standard output.
	Output string

	// Stdout replaces os.Stdout when Output names standard output.
	Stdout io.Writer

	Compression sink.Compression

	// Where drops records that do not match. Nil keeps everything.
	Where filter.Expression

	// Limit stops after this many records. Zero means no limit.
	Limit int

	// WithFilename appends reader.FileColumn to every record.
	WithFilename bool

	Logger *slog.Logger
}

// Result summarises a finished conversion.
type Result struct {
	Records int
	Bytes   int64
}

// Run executes job. The encoder is resolved before the sink is opened, so an
// unsupported format never truncates an existing output file.
func Run(job Job) (Result, error) {
	logger := job.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if len(job.Inputs) == 0 {
		return Result{}, fmt.Errorf("%w: no input files", parqerrors.ErrInvalidInput)
	}
	if job.Limit < 0 {
		return Result{}, fmt.Errorf("%w: limit must be non-negative, got %d", parqerrors.ErrInvalidInput, job.Limit)
	}

	enc, err := output.NewEncoder(job.Format, job.Options)
	if err != nil {
		return Result{}, err
	}

	openers := make([]stream.Opener, len(job.Inputs))
	for i, path := range job.Inputs {
		openers[i] = job.opener(path, logger)
	}
	chain := stream.NewChain(openers...)

	var s stream.Stream = chain
	if job.Where != nil {
		s = filter.Apply(s, job.Where)
	}
	if job.Limit > 0 {
		s = stream.Limit(s, job.Limit)
	}
	defer func() { _ = s.Close() }()

	out, err := job.openSink()
	if err != nil {
		return Result{}, err
	}

	logger.Debug("converting",
		"sources", len(job.Inputs),
		"format", job.Format.String(),
		"streaming", job.Format.Streaming(),
		"output", out.Name(),
		"compression", job.Compression.String())

	start := time.Now()
	n, encErr := enc.Encode(s, out)
	closeErr := out.Close()
	result := Result{Records: n, Bytes: out.Written()}

	if encErr != nil {
		logger.Debug("conversion failed", "records", n, "error", encErr)
		return result, fmt.Errorf("convert to %s: %w", job.Format, encErr)
	}
	if closeErr != nil {
		return result, closeErr
	}

	logger.Debug("conversion finished",
		"records", n,
		"bytes", result.Bytes,
		"duration", time.Since(start))
	return result, nil
}

func (job Job) openSink() (*sink.Writer, error) {
	opts := []sink.Option{sink.WithCompression(job.Compression)}
	if job.Output == "" || job.Output == "-" {
		if job.Stdout != nil {
			return sink.NewWriter(job.Stdout, "stdout", opts...)
		}
		return sink.Stdout(opts...), nil
	}
	return sink.Create(job.Output, opts...)
}

func (job Job) opener(path string, logger *slog.Logger) stream.Opener {
	var opts []reader.Option
	if job.WithFilename {
		opts = append(opts, reader.WithFileColumn(reader.FileColumn))
	}

	return func() (stream.Stream, error) {
		r, err := reader.NewReader(path, opts...)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened source", "path", path, "rows", r.NumRows())
		return &loggedSource{Reader: r, logger: logger}, nil
	}
}

// loggedSource reports how many records a source produced when it closes.
type loggedSource struct {
	*reader.Reader
	logger *slog.Logger
}

func (s *loggedSource) Close() error {
	err := s.Reader.Close()
	s.logger.Debug("closed source", "path", s.Path(), "records", s.Count())
	return err
}
