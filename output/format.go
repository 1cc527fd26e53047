package output

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	parqerrors "github.com/vegasq/parq/internal/errors"
)

// Format identifies an output encoding. The set is closed: every Format has
// exactly one encoder, see NewEncoder.
type Format int

const (
	// JSONL writes one compact JSON object per line, streaming.
	JSONL Format = iota
	// JSON writes a single compact JSON array, buffered.
	JSON
	// CSV writes a header row and one row per record, buffered.
	CSV

	numFormats
)

var formatNames = [numFormats]string{
	JSONL: "jsonl",
	JSON:  "json",
	CSV:   "csv",
}

// Formats returns every supported format in declaration order.
func Formats() []Format {
	formats := make([]Format, numFormats)
	for i := range formats {
		formats[i] = Format(i)
	}
	return formats
}

// FormatNames returns the names accepted by ParseFormat.
func FormatNames() []string {
	return formatNames[:]
}

// ParseFormat parses a format name, ignoring case and surrounding spaces.
// Unknown names return an error wrapping ErrUnsupportedFormat.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w '%s' (supported: %s)",
		parqerrors.ErrUnsupportedFormat, s, strings.Join(FormatNames(), ", "))
}

func (f Format) valid() bool {
	return f >= 0 && f < numFormats
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

var _ pflag.Value = (*Format)(nil)

// Set implements pflag.Value so a Format can be bound directly to a flag and
// rejected at parse time.
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}
