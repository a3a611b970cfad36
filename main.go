// =============================================================================
// Card Sheet Converter - Main Entry Point
// =============================================================================
//
// cardsheet converts trading-card spreadsheets into JSON card documents.
//
// USAGE:
//   cardsheet [path]        - Convert a spreadsheet or every spreadsheet in a directory
//   cardsheet aliases       - Show the accepted column headers
//   cardsheet version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/                  : CLI command definitions (Cobra)
//   - internal/table        : Reads the first sheet of .xlsx/.xlsm/.xls/.csv files
//   - internal/columns      : Resolves header aliases to canonical fields
//   - internal/card         : Normalizes rows into card records
//   - internal/converter    : Per-file pipeline and directory runs
//   - pkg/utils             : File discovery, output paths, reports
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/cardsheet/cmd"
)

func main() {
	cmd.Execute()
}
