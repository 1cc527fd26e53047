package config

// Config represents the complete configuration for parq. Values come from
// YAML configuration files and environment variables; command-line flags
// override them in the CLI.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	CSV    CSVConfig    `yaml:"csv"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig controls how input arguments are resolved into files.
type InputConfig struct {
	// MaxFiles caps how many files glob patterns may expand to.
	MaxFiles int `yaml:"max_files"`

	// WithFilename appends a _file column holding the source path.
	WithFilename bool `yaml:"with_filename"`
}

// OutputConfig controls the output destination.
type OutputConfig struct {
	// Compression is one of none, gzip, zstd, lz4, brotli or auto.
	Compression string `yaml:"compression"`
}

// CSVConfig tunes the CSV encoder.
type CSVConfig struct {
	// Sanitize quotes cells that spreadsheets would evaluate as formulas.
	Sanitize bool `yaml:"sanitize"`

	// LineEnding is auto (platform default), lf or crlf.
	LineEnding string `yaml:"line_ending"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in defaults: uncompressed output, platform
// line endings, warnings only.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxFiles: 1000,
		},
		Output: OutputConfig{
			Compression: "none",
		},
		CSV: CSVConfig{
			LineEnding: "auto",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
