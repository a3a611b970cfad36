package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// utf8BOM is stripped from the first header cell; spreadsheet tools add it
// when exporting CSV.
const utf8BOM = "\ufeff"

// readCSV reads a comma separated file as a single sheet.
func readCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))

	// Allow a variable number of fields per row and quotes that don't
	// follow strict CSV rules; hand-edited exports rarely do.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}

	return fromRows(path, "", rows), nil
}
