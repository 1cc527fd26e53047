package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/vegasq/parq/internal/config"
	parqerrors "github.com/vegasq/parq/internal/errors"
)

// globals holds state shared by every subcommand, filled in before the
// subcommand runs.
type globals struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "parq",
		Short: "Convert Parquet files to JSON Lines, JSON or CSV",
		Long: `parq reads one or more Parquet files and writes their rows as JSON Lines,
a single JSON array, or CSV, to a file or to standard output.

Rows from several inputs are concatenated in the order the inputs are given.
JSON Lines output is streamed record by record; JSON and CSV are written in
one piece once every record has been read.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: .parq.yaml, .parq.yml or ~/.config/parq/config.yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides PARQ_LOG_LEVEL)")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", parqerrors.ErrInvalidInput, err)
	})

	root.AddCommand(newConvertCommand(g), newSchemaCommand(g))
	return root
}

// load reads the configuration and sets up logging. The --log-level flag
// wins over the environment and the config file.
func (g *globals) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", parqerrors.ErrInvalidInput, err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return fmt.Errorf("%w: %w", parqerrors.ErrInvalidInput, err)
	}

	g.cfg = cfg
	g.logger = newLogger(cmd.ErrOrStderr(), level)
	g.logger.Debug("configuration loaded",
		"max_files", cfg.Input.MaxFiles,
		"compression", cfg.Output.Compression,
		"csv_line_ending", cfg.CSV.LineEnding,
		"csv_sanitize", cfg.CSV.Sanitize)
	return nil
}

// newLogger returns a text logger tagged with a per-invocation run id.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == os.Stderr {
		w = colorable.NewColorableStderr()
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run", uuid.NewString())
}
