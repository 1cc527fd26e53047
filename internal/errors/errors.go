// Package errors defines sentinel errors for the conversion pipeline.
// Each sentinel maps to a distinct exit code in the CLI so scripts can tell
// which stage of a conversion failed.
package errors

import "errors"

// Sentinel errors, wrapped with stage context by the packages that raise them.
var (
	// ErrUnsupportedFormat indicates an output format outside jsonl, json and csv.
	// Maps to exit code 2.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrInvalidInput indicates an input path that does not exist or a glob
	// pattern that matched nothing.
	// Maps to exit code 2.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceDecode indicates a record source failed to open or decode.
	// Maps to exit code 3.
	ErrSourceDecode = errors.New("source decode failed")

	// ErrEmptyStream indicates the CSV encoder received no records, so no
	// header could be derived.
	// Maps to exit code 4.
	ErrEmptyStream = errors.New("empty record stream")

	// ErrSink indicates the output destination could not be opened or written.
	// Maps to exit code 5.
	ErrSink = errors.New("output write failed")
)

// ExitCode maps an error returned by the pipeline to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrInvalidInput):
		return 2
	case errors.Is(err, ErrSourceDecode):
		return 3
	case errors.Is(err, ErrEmptyStream):
		return 4
	case errors.Is(err, ErrSink):
		return 5
	default:
		return 1
	}
}
