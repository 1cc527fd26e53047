package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	parqerrors "github.com/vegasq/parq/internal/errors"
	"github.com/vegasq/parq/output"
	"github.com/vegasq/parq/reader"
	"github.com/vegasq/parq/record"
	"github.com/vegasq/parq/sink"
	"github.com/vegasq/parq/stream"
)

const tableFormat = "table"

func newSchemaCommand(g *globals) *cobra.Command {
	var input, format string

	cmd := &cobra.Command{
		Use:   "schema -i FILE [-f table|jsonl|json|csv]",
		Short: "Show the columns of a Parquet file",
		Long: `Show the leaf columns of a Parquet file with their types and repetition.
Nested columns are listed with dot notation, e.g. address.street.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return fmt.Errorf("%w: --input is required", parqerrors.ErrInvalidInput)
			}
			g.logger.Debug("reading schema", "path", input, "format", format)
			return runSchema(cmd.OutOrStdout(), input, format)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Parquet file (required)")
	cmd.Flags().StringVarP(&format, "format", "f", tableFormat, "Output format: table, jsonl, json, csv")

	return cmd
}

func runSchema(w io.Writer, input, format string) error {
	paths, err := reader.ExpandInputs([]string{input}, 1)
	if err != nil {
		return err
	}

	infos, err := reader.ExtractSchemaInfo(paths[0])
	if err != nil {
		return fmt.Errorf("%w: %w", parqerrors.ErrSourceDecode, err)
	}

	records := make([]*record.Record, len(infos))
	for i, info := range infos {
		records[i] = info.Record()
	}

	out, err := sink.NewWriter(w, "stdout")
	if err != nil {
		return err
	}

	if strings.EqualFold(strings.TrimSpace(format), tableFormat) {
		err = output.WriteTable(out, records)
	} else {
		err = encodeSchema(out, records, format)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

func encodeSchema(w io.Writer, records []*record.Record, format string) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%w (or %s)", err, tableFormat)
	}
	enc, err := output.NewEncoder(f, output.DefaultOptions())
	if err != nil {
		return err
	}
	_, err = enc.Encode(stream.FromSlice(records), w)
	return err
}
