package table

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/extrame/ole2"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// BIFF8 record identifiers used when scanning the workbook stream.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recBoundSheet = 0x0085
	recString     = 0x0207
)

const secondsPerDay = 24 * 60 * 60

// excelEpoch is day zero of the 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var errTruncatedRecord = errors.New("truncated record")

// cellRef is a zero-based row and column position.
type cellRef struct {
	row, col int
}

func (r cellRef) String() string {
	name, err := excelize.CoordinatesToCellName(r.col+1, r.row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", r.row+1, r.col+1)
	}
	return name
}

// readLegacyWorkbook reads the first sheet of a BIFF (.xls) workbook.
//
// extrame/xls drops FORMULA records, so formula cells are filled in afterwards
// from the cached results stored in the workbook stream.
func readLegacyWorkbook(path string) (t *Table, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	// The BIFF parser panics on some malformed records.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("failed to parse workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(file, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("failed to read first sheet")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := legacyRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = legacyCell(row.Col(j))
		}
		rows = append(rows, cells)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind workbook: %w", err)
	}
	stream, err := workbookStream(file)
	if err != nil {
		return nil, err
	}
	formulas, err := formulaResults(stream)
	if err != nil {
		return nil, err
	}
	for ref, value := range formulas {
		rows = setCell(rows, ref, value)
	}

	return fromRows(path, sheet.Name, rows), nil
}

// legacyRow returns row i of sheet, or nil when the sheet has no record for
// that row. WorkSheet.Row dereferences the missing row and panics.
func legacyRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// legacyCell turns the parser's text for a cell back into its raw value.
//
// Numbers stored with a custom number format are rendered by the parser as
// RFC 3339 timestamps in the 1900 date system; they are converted back to the
// number they were built from.
func legacyCell(text string) string {
	ts, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return text
	}
	days := float64(ts.Unix()-excelEpoch.Unix()) / secondsPerDay
	return strconv.FormatFloat(days, 'f', -1, 64)
}

// setCell stores value at ref, growing rows as needed.
func setCell(rows [][]string, ref cellRef, value string) [][]string {
	for len(rows) <= ref.row {
		rows = append(rows, nil)
	}
	row := rows[ref.row]
	for len(row) <= ref.col {
		row = append(row, "")
	}
	row[ref.col] = value
	rows[ref.row] = row
	return rows
}

// =============================================================================
// FORMULA RESULTS
// =============================================================================

// workbookStream returns the raw BIFF stream of a compound document.
func workbookStream(r io.ReadSeeker) ([]byte, error) {
	doc, err := ole2.Open(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	entries, err := doc.ListDir()
	if err != nil {
		return nil, fmt.Errorf("failed to list workbook streams: %w", err)
	}

	var book, root *ole2.File
	for _, e := range entries {
		switch e.Name() {
		case "Workbook", "Book":
			book = e
		case "Root Entry":
			root = e
		}
	}
	if book == nil || root == nil {
		return nil, fmt.Errorf("workbook stream not found")
	}

	data, err := io.ReadAll(doc.OpenFile(book, root))
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook stream: %w", err)
	}
	return data, nil
}

// formulaResults collects the cached result of every formula cell in the
// first sheet of a BIFF8 workbook stream. Numbers are formatted like plain
// number cells; string results come from the STRING record that follows
// their FORMULA record. A cached error value (#DIV/0!, #REF!, ...) is an
// error naming the cell.
func formulaResults(stream []byte) (map[cellRef]string, error) {
	sheetPos := -1
	for pos := 0; pos+4 <= len(stream); {
		id, body, next, err := record(stream, pos)
		if err != nil {
			return nil, err
		}
		if id == recBoundSheet && len(body) >= 4 {
			sheetPos = int(binary.LittleEndian.Uint32(body))
			break
		}
		if id == recEOF {
			break
		}
		pos = next
	}
	if sheetPos < 0 || sheetPos >= len(stream) {
		return nil, nil
	}

	results := make(map[cellRef]string)
	var pending *cellRef

	for pos := sheetPos; pos+4 <= len(stream); {
		id, body, next, err := record(stream, pos)
		if err != nil {
			return nil, err
		}
		pos = next

		switch id {
		case recFormula:
			if len(body) < 14 {
				return nil, fmt.Errorf("formula record: %w", errTruncatedRecord)
			}
			ref := cellRef{
				row: int(binary.LittleEndian.Uint16(body[0:])),
				col: int(binary.LittleEndian.Uint16(body[2:])),
			}
			pending = nil

			res := body[6:14]
			if res[6] != 0xFF || res[7] != 0xFF {
				f := math.Float64frombits(binary.LittleEndian.Uint64(res))
				results[ref] = strconv.FormatFloat(f, 'f', -1, 64)
				continue
			}
			switch res[0] {
			case 0x00:
				pending = &ref
			case 0x01:
				results[ref] = strconv.FormatBool(res[2] != 0)
			case 0x02:
				return nil, fmt.Errorf("cell %s: formula result is an error value", ref)
			default:
				results[ref] = ""
			}

		case recString:
			if pending == nil {
				continue
			}
			s, err := biffString(body)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", *pending, err)
			}
			results[*pending] = s
			pending = nil

		case recEOF:
			return results, nil
		}
	}

	return results, nil
}

// record splits the record at pos into its id and body and returns the
// position of the next record.
func record(stream []byte, pos int) (id int, body []byte, next int, err error) {
	id = int(binary.LittleEndian.Uint16(stream[pos:]))
	size := int(binary.LittleEndian.Uint16(stream[pos+2:]))
	next = pos + 4 + size
	if next > len(stream) {
		return 0, nil, 0, fmt.Errorf("record 0x%04X at %d: %w", id, pos, errTruncatedRecord)
	}
	return id, stream[pos+4 : next], next, nil
}

// biffString decodes the unicode string held by a STRING record.
func biffString(body []byte) (string, error) {
	if len(body) < 3 {
		return "", errTruncatedRecord
	}
	n := int(binary.LittleEndian.Uint16(body))
	flags := body[2]
	p := 3
	if flags&0x08 != 0 {
		p += 2
	}
	if flags&0x04 != 0 {
		p += 4
	}

	if flags&0x01 == 0 {
		if p+n > len(body) {
			return "", errTruncatedRecord
		}
		runes := make([]rune, n)
		for i, b := range body[p : p+n] {
			runes[i] = rune(b)
		}
		return string(runes), nil
	}

	if p+2*n > len(body) {
		return "", errTruncatedRecord
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(body[p+2*i:])
	}
	return string(utf16.Decode(units)), nil
}
