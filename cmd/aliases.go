// =============================================================================
// Card Sheet Converter - Aliases Command
// =============================================================================
//
// This file defines the 'aliases' command, which prints the effective column
// alias table. With --config it also validates the configuration file, so it
// doubles as a config check before a large run.
//
// COMMAND USAGE:
//   cardsheet aliases [--config FILE]
//
// OUTPUT:
//   name            Name, name, Nome
//   attribute       Attribute, attribute, Attributo
//   ...
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/cardsheet/internal/config"
	"github.com/spf13/cobra"
)

// aliasesCmd represents the 'aliases' command.
var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Show the header aliases accepted for each card field",
	Long: `Show the header aliases accepted for each canonical card field, in priority
order, together with the extra deck keywords and accepted file extensions.

When --config is given the file is loaded and validated first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		printAliases(cmd.OutOrStdout(), cfg)
		return nil
	},
}

// printAliases writes the alias table of cfg to out.
func printAliases(out io.Writer, cfg *config.Config) {
	for _, field := range config.Fields {
		fmt.Fprintf(out, "%-16s%s\n", field, strings.Join(cfg.Aliases(field), ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-16s%s\n", "extra deck", strings.Join(cfg.ExtraDeckKeywords, ", "))
	fmt.Fprintf(out, "%-16s%s\n", "default icon", cfg.DefaultIcon)
	fmt.Fprintf(out, "%-16s%s\n", "extensions", strings.Join(cfg.Extensions, ", "))
}

func init() {
	rootCmd.AddCommand(aliasesCmd)
}
