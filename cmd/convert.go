// =============================================================================
// Card Sheet Converter - Convert
// =============================================================================
//
// This file implements what the root command does with its path argument.
//
// FLAGS:
//   --no-recursive : Only convert spreadsheets at the top level of a directory
//   --output, -o   : Write every JSON document into this directory
//   --report       : After a directory run, write a JSON report to this file
//
// PROCESSING PIPELINE:
//   1. Load configuration (built-in aliases plus optional --config file)
//   2. Decide whether the path is a file or a directory
//   3. Convert the file, or every accepted spreadsheet in the directory,
//      sequentially
//   4. Print a summary and choose the exit status
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/cardsheet/internal/converter"
	"github.com/ginjaninja78/cardsheet/internal/logging"
	"github.com/ginjaninja78/cardsheet/internal/types"
	"github.com/ginjaninja78/cardsheet/pkg/utils"
)

// convertOptions collects everything a conversion run needs from the
// command line.
type convertOptions struct {
	path       string
	configFile string
	outputDir  string
	reportFile string
	recursive  bool
	verbose    bool
}

// convertOpts receives the root command's local flags.
var convertOpts convertOptions

// noRecursive backs the --no-recursive flag.
var noRecursive bool

// errNothingConverted is returned when a directory run attempted files but
// none of them could be converted.
var errNothingConverted = errors.New("no spreadsheet could be converted")

// errConversionFailed is returned when a single-file run fails. The cause has
// already been logged by the converter.
var errConversionFailed = errors.New("conversion failed")

// runConvert converts opts.path and writes log lines and the summary to out.
//
// RETURNS:
//   - nil when the process should exit 0, otherwise the error to print.
//     Path problems wrap types.ErrPathNotFound or types.ErrInvalidInputType.
func runConvert(opts convertOptions, out io.Writer) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}

	logger := logging.NewConsole(out, opts.verbose, isTerminal(out))

	info, err := os.Stat(opts.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", types.ErrPathNotFound, opts.path)
		}
		return fmt.Errorf("failed to inspect %s: %w", opts.path, err)
	}

	var convOpts []converter.Option
	convOpts = append(convOpts, converter.WithLogger(logger))
	if opts.outputDir != "" {
		convOpts = append(convOpts, converter.WithOutputDir(opts.outputDir))
	}
	conv := converter.New(cfg, convOpts...)

	switch {
	case info.IsDir():
		return runDirectory(conv, opts, logger, out)

	case info.Mode().IsRegular():
		if !cfg.AcceptsExtension(opts.path) {
			return fmt.Errorf("%w: %s is not a spreadsheet (accepted: %v)", types.ErrInvalidInputType, opts.path, cfg.Extensions)
		}
		if opts.reportFile != "" {
			logger.Warn("--report only applies to directory runs; ignoring it")
		}

		result := conv.Convert(opts.path)
		if !result.Success {
			return fmt.Errorf("%w: %s", errConversionFailed, opts.path)
		}
		return nil

	default:
		return fmt.Errorf("%w: %s is neither a file nor a directory", types.ErrInvalidInputType, opts.path)
	}
}

// runDirectory converts a directory and reports the outcome.
func runDirectory(conv *converter.Converter, opts convertOptions, logger logging.Logger, out io.Writer) error {
	summary, err := conv.ConvertDirectory(opts.path, opts.recursive)
	if err != nil {
		return err
	}

	if opts.reportFile != "" {
		if err := utils.WriteReport(summary, opts.reportFile); err != nil {
			logger.Error("Failed to write report: %v", err)
		} else {
			logger.Info("Wrote report to %s", opts.reportFile)
		}
	}

	fmt.Fprintln(out, renderSummary(summary))

	if summary.Attempted > 0 && summary.Succeeded == 0 {
		return fmt.Errorf("%w in %s (%d attempted)", errNothingConverted, opts.path, summary.Attempted)
	}
	return nil
}

// isTerminal reports whether out is a terminal file.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && logging.IsTerminal(f)
}

func init() {
	flags := rootCmd.Flags()

	flags.BoolVar(
		&noRecursive,
		"no-recursive",
		false,
		"Only convert spreadsheets at the top level of a directory",
	)

	flags.StringVarP(
		&convertOpts.outputDir,
		"output",
		"o",
		"",
		"Directory for the JSON documents (created if missing)",
	)

	flags.StringVar(
		&convertOpts.reportFile,
		"report",
		"",
		"Write a JSON report of a directory run to this file",
	)
}
