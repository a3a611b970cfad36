// =============================================================================
// Card Sheet Converter - Table Reader
// =============================================================================
//
// This module loads the first sheet of a spreadsheet into memory as a header
// row plus data rows. It is the only place that knows about file formats;
// everything downstream works on a Table.
//
// SUPPORTED FORMATS:
//   .xlsx / .xlsm : Office Open XML workbooks (excelize)
//   .xls          : legacy BIFF workbooks (extrame/xls)
//   .csv          : comma separated text (encoding/csv)
//
// Which of these are picked up during discovery is controlled by the
// "extensions" setting; Read itself accepts any format it has a reader for.
//
// SHEET LAYOUT:
//   Row 1 is the header row. Every following row that has at least one
//   non-blank cell is a data row. Header cells are whitespace-trimmed.
//
// =============================================================================

package table

import (
	"fmt"
	"path/filepath"
	"strings"
)

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Table is the in-memory contents of one sheet.
type Table struct {
	// SourceFile is the path the table was read from.
	SourceFile string

	// Sheet is the name of the sheet that was read (empty for CSV).
	Sheet string

	// Headers holds the trimmed header cells, in column order.
	Headers []string

	// Rows holds the data rows. Rows may be shorter than Headers when
	// trailing cells are empty.
	Rows [][]string
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// readerFunc loads a table from a file of one format.
type readerFunc func(path string) (*Table, error)

// readers maps a lower-cased extension to its reader.
var readers = map[string]readerFunc{
	".xlsx": readWorkbook,
	".xlsm": readWorkbook,
	".xls":  readLegacyWorkbook,
	".csv":  readCSV,
}

// Supported reports whether Read has a reader for the path's extension.
func Supported(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Read loads the first sheet of the spreadsheet at path.
//
// RETURNS:
//   - The table. A sheet with only a header row yields zero Rows; the caller
//     decides whether that is an error.
//   - An error if the format is unknown or the file cannot be parsed.
func Read(path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	return read(path)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// fromRows splits raw rows into header and data rows.
func fromRows(path, sheet string, rows [][]string) *Table {
	t := &Table{
		SourceFile: path,
		Sheet:      sheet,
		Headers:    []string{},
		Rows:       [][]string{},
	}

	if len(rows) == 0 {
		return t
	}

	t.Headers = cleanHeaders(rows[0])

	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

// cleanHeaders trims each header cell.
// Blank headers stay blank: no alias can match them.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
