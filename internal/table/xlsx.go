package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readWorkbook reads the first sheet of an .xlsx/.xlsm workbook.
//
// Cells are read as raw values, so a number stored as 2500 comes back as
// "2500" regardless of the display format applied in the sheet.
func readWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}

	return fromRows(path, sheet, rows), nil
}
