// =============================================================================
// Card Sheet Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command with a path converts that spreadsheet, or every spreadsheet in that
// directory, to JSON. Subcommands provide auxiliary information.
//
// COBRA CLI STRUCTURE:
//   rootCmd (cardsheet [path])
//   ├── aliasesCmd (cardsheet aliases)
//   └── versionCmd (cardsheet version)
//
// EXIT STATUS:
//   0  everything requested was converted, or a directory held no spreadsheets
//   1  the path is missing or unusable, a single file failed, or a directory
//      run converted none of the files it attempted
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/cardsheet/internal/config"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to an optional YAML or TOML configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cardsheet [path]",
	Short: "Convert card spreadsheets to JSON",
	Long: `cardsheet converts trading-card spreadsheets (.xlsx, .xls, .xlsm) into
JSON documents with one normalized record per row.

Column headers may be written in English or Italian; each canonical field
accepts a list of header aliases. Missing cells fall back to defaults, stats
written as 2500 are scaled to 25, and the card type and extra deck flag are
derived from the spell/trap and type columns.

The path may be a single spreadsheet or a directory. Each spreadsheet is
written as <name>.json next to the input, or into --output.

Example Usage:
  cardsheet                         # Convert every spreadsheet below the current directory
  cardsheet cards/monsters.xlsx     # Convert a single file
  cardsheet cards --no-recursive    # Only the top level of cards/
  cardsheet cards -o out --report out/report.json`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		opts := convertOpts
		opts.path = "."
		if len(args) == 1 {
			opts.path = args[0]
		}
		opts.configFile = cfgFile
		opts.recursive = !noRecursive
		opts.verbose = verbose

		return runConvert(opts, cmd.OutOrStdout())
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig returns the built-in configuration merged with the optional
// file at path.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML or TOML file overriding the built-in column aliases",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
