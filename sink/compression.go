package sink

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the codec applied to sink output.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
	LZ4
	Brotli
)

var compressionNames = map[Compression]string{
	None:   "none",
	Gzip:   "gzip",
	Zstd:   "zstd",
	LZ4:    "lz4",
	Brotli: "brotli",
}

var compressionExtensions = map[string]Compression{
	".gz":   Gzip,
	".gzip": Gzip,
	".zst":  Zstd,
	".zstd": Zstd,
	".lz4":  LZ4,
	".br":   Brotli,
}

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// ParseCompression parses a codec name. "auto" resolves from the extension
// of path, and to None when path is empty (standard output).
func ParseCompression(name, path string) (Compression, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, nil
	}
	if name == "auto" {
		return CompressionFor(path), nil
	}
	for c, n := range compressionNames {
		if n == name {
			return c, nil
		}
	}
	return None, fmt.Errorf("unknown compression %q (supported: none, gzip, zstd, lz4, brotli, auto)", name)
}

// CompressionFor picks the codec matching the extension of path.
func CompressionFor(path string) Compression {
	if c, ok := compressionExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return None
}

// newEncoder wraps w with the codec. It returns nil for None.
func (c Compression) newEncoder(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nil, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	case LZ4:
		return lz4.NewWriter(w), nil
	case Brotli:
		return brotli.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown compression %s", c)
	}
}
