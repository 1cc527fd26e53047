package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	parqerrors "github.com/vegasq/parq/internal/errors"
)

// DefaultMaxFiles caps how many files a set of input patterns may expand to.
const DefaultMaxFiles = 1000

// ExpandInputs resolves input arguments to an ordered list of file paths.
//
// Arguments containing glob wildcards are expanded with filepath.Glob:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// Matches of one pattern are sorted lexically; the order of arguments is
// kept. Plain paths must exist and must not be directories. A pattern that
// matches nothing, a missing path, or more than maxFiles results is an
// ErrInvalidInput. maxFiles <= 0 means DefaultMaxFiles.
func ExpandInputs(args []string, maxFiles int) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one input file is required", parqerrors.ErrInvalidInput)
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	var paths []string
	for _, arg := range args {
		if !isPattern(arg) {
			if err := checkFile(arg); err != nil {
				return nil, err
			}
			paths = append(paths, arg)
		} else {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid glob pattern %q: %v", parqerrors.ErrInvalidInput, arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%w: no files match pattern: %s", parqerrors.ErrInvalidInput, arg)
			}
			paths = append(paths, matches...)
		}

		if len(paths) > maxFiles {
			return nil, fmt.Errorf("%w: inputs expand to too many files (more than %d)", parqerrors.ErrInvalidInput, maxFiles)
		}
	}

	return paths, nil
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[")
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: file '%s' not found", parqerrors.ErrInvalidInput, path)
		}
		return fmt.Errorf("%w: %v", parqerrors.ErrInvalidInput, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: '%s' is a directory", parqerrors.ErrInvalidInput, path)
	}
	return nil
}
