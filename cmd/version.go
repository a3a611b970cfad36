// =============================================================================
// Card Sheet Converter - Version Command
// =============================================================================
//
// This file defines the 'version' command. It prints the release the binary
// was built from, its build date and the Go runtime it was compiled with.
//
// COMMAND USAGE:
//   cardsheet version
//
// OUTPUT:
//   cardsheet
//   Version:    v1.2.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// A release build sets Version and BuildDate with ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/cardsheet/cmd.Version=v1.2.0'"
// A binary installed with "go install module@version" reports the module
// version instead of "dev".
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// devVersion is the Version of a binary built without ldflags.
const devVersion = "dev"

// Version is the application version.
var Version = devVersion

// BuildDate is the date the application was built.
var BuildDate = "unknown"

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, and Go runtime version.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

// printVersion writes the version block to out.
func printVersion(out io.Writer) {
	fmt.Fprintln(out, "cardsheet")
	fmt.Fprintf(out, "%-12s%s\n", "Version:", buildVersion())
	fmt.Fprintf(out, "%-12s%s\n", "Build Date:", BuildDate)
	fmt.Fprintf(out, "%-12s%s\n", "Go Version:", runtime.Version())
}

// buildVersion returns Version, falling back to the module version recorded
// in the binary when no version was linked in.
func buildVersion() string {
	if Version != devVersion {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
