package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/parq/convert"
	"github.com/vegasq/parq/filter"
	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/output"
	"github.com/vegasq/parq/reader"
	"github.com/vegasq/parq/sink"
)

type convertOptions struct {
	inputs        []string
	format        output.Format
	output        string
	limit         int
	where         string
	withFilename  bool
	compress      string
	csvSanitize   bool
	csvLineEnding string
}

func newConvertCommand(g *globals) *cobra.Command {
	o := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert -i FILE [-i FILE...] -f FORMAT [-o FILE]",
		Short: "Convert Parquet rows to jsonl, json or csv",
		Long: `Convert the rows of one or more Parquet files.

Formats:
  jsonl  one compact JSON object per line, streamed
  json   a single JSON array
  csv    header from the first record's columns, then one row per record

Inputs may be glob patterns (quote them so the shell does not expand them).
Without --output the result goes to standard output.`,
		Example: `  parq convert -i data.parquet -f jsonl
  parq convert -i 'logs/*.parquet' -f csv -o logs.csv
  parq convert -i a.parquet -i b.parquet -f json --where 'age >= 30' -o out.json.gz --compress auto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, g, o)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&o.inputs, "input", "i", nil, "Input Parquet file or glob pattern (repeatable, required)")
	flags.VarP(&o.format, "format", "f", "Output format: jsonl, json, csv (required)")
	// the zero Format is a real format, so hide it from the help text
	flags.Lookup("format").DefValue = ""
	flags.StringVarP(&o.output, "output", "o", "", "Output file path (default: stdout)")
	flags.IntVar(&o.limit, "limit", 0, "Stop after this many records (0 = unlimited)")
	flags.StringVarP(&o.where, "where", "w", "", "Only keep records matching this expression, e.g. \"age > 30 and active = true\"")
	flags.BoolVar(&o.withFilename, "with-filename", false, "Add a _file column holding each record's source path")
	flags.StringVar(&o.compress, "compress", "", "Output compression: none, gzip, zstd, lz4, brotli, auto (default from config)")
	flags.BoolVar(&o.csvSanitize, "csv-sanitize", false, "Quote CSV cells that spreadsheets would run as formulas")
	flags.StringVar(&o.csvLineEnding, "csv-line-ending", "", "CSV line ending: auto, lf, crlf (default from config)")

	return cmd
}

func runConvert(cmd *cobra.Command, g *globals, o *convertOptions) error {
	flags := cmd.Flags()

	if len(o.inputs) == 0 {
		return fmt.Errorf("%w: --input is required", parqerrors.ErrInvalidInput)
	}
	if !flags.Changed("format") {
		return fmt.Errorf("%w: --format is required (%s)", parqerrors.ErrInvalidInput, formatList())
	}
	if o.limit < 0 {
		return fmt.Errorf("%w: --limit must be non-negative, got %d", parqerrors.ErrInvalidInput, o.limit)
	}

	cfg := g.cfg
	if flags.Changed("compress") {
		cfg.Output.Compression = o.compress
	}
	if flags.Changed("with-filename") {
		cfg.Input.WithFilename = o.withFilename
	}
	if flags.Changed("csv-sanitize") {
		cfg.CSV.Sanitize = o.csvSanitize
	}
	if flags.Changed("csv-line-ending") {
		cfg.CSV.LineEnding = o.csvLineEnding
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", parqerrors.ErrInvalidInput, err)
	}

	destination := o.output
	if destination == "-" {
		destination = ""
	}
	compression, err := sink.ParseCompression(cfg.Output.Compression, destination)
	if err != nil {
		return fmt.Errorf("%w: %w", parqerrors.ErrInvalidInput, err)
	}

	paths, err := reader.ExpandInputs(o.inputs, cfg.Input.MaxFiles)
	if err != nil {
		return err
	}
	if err := checkOverwrite(destination, paths); err != nil {
		return err
	}

	var where filter.Expression
	if o.where != "" {
		where, err = filter.Parse(o.where)
		if err != nil {
			return fmt.Errorf("%w: %w", parqerrors.ErrInvalidInput, err)
		}
	}

	g.logger.Debug("resolved inputs", "patterns", len(o.inputs), "files", len(paths))

	job := convert.Job{
		Inputs: paths,
		Format: o.format,
		Options: output.Options{
			CSV: output.CSVOptions{
				UseCRLF:  cfg.CSV.UseCRLF(),
				Sanitize: cfg.CSV.Sanitize,
			},
		},
		Output:       destination,
		Compression:  compression,
		Where:        where,
		Limit:        o.limit,
		WithFilename: cfg.Input.WithFilename,
		Logger:       g.logger,
	}
	if out := cmd.OutOrStdout(); out != os.Stdout {
		job.Stdout = out
	}

	res, err := convert.Run(job)
	if err != nil {
		return err
	}

	g.logger.Info("conversion complete",
		"records", res.Records,
		"bytes", res.Bytes,
		"files", len(paths),
		"format", o.format.String())
	return nil
}

// checkOverwrite refuses an output path that is also an input, since the
// sink truncates it before the source is read.
func checkOverwrite(destination string, inputs []string) error {
	if destination == "" {
		return nil
	}
	target, err := filepath.Abs(destination)
	if err != nil {
		return nil
	}
	targetInfo, statErr := os.Stat(target)

	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			continue
		}
		if abs == target {
			return fmt.Errorf("%w: output %s is also an input", parqerrors.ErrInvalidInput, destination)
		}
		if statErr == nil {
			if info, err := os.Stat(abs); err == nil && os.SameFile(info, targetInfo) {
				return fmt.Errorf("%w: output %s is also an input", parqerrors.ErrInvalidInput, destination)
			}
		}
	}
	return nil
}

func formatList() string {
	return strings.Join(output.FormatNames(), ", ")
}
