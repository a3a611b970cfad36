package table

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an .xlsx file whose first sheet holds rows.
func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestRead_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{" Name ", "ATK", "DEF"},
		{"Dragon", 2500, 2100},
		{"", "", ""},
		{"Goblin", 12, nil},
	})

	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	wantHeaders := []string{"Name", "ATK", "DEF"}
	if len(tbl.Headers) != len(wantHeaders) {
		t.Fatalf("Headers = %q; want %q", tbl.Headers, wantHeaders)
	}
	for i, h := range wantHeaders {
		if tbl.Headers[i] != h {
			t.Errorf("Header %d = %q; want %q", i, tbl.Headers[i], h)
		}
	}

	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount = %d; want 2 (blank row skipped)", tbl.RowCount())
	}
	if tbl.Rows[0][1] != "2500" {
		t.Errorf("ATK cell = %q; want raw value 2500", tbl.Rows[0][1])
	}
	if tbl.Rows[1][0] != "Goblin" {
		t.Errorf("second row name = %q; want Goblin", tbl.Rows[1][0])
	}
	if tbl.Sheet == "" {
		t.Error("Sheet name should be recorded for workbooks")
	}
}

func TestRead_WorkbookHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsm")
	writeWorkbook(t, path, [][]interface{}{
		{"Name", "ATK"},
	})

	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tbl.RowCount() != 0 {
		t.Errorf("RowCount = %d; want 0", tbl.RowCount())
	}
	if len(tbl.Headers) != 2 {
		t.Errorf("Headers = %q; want 2 headers", tbl.Headers)
	}
}

func TestRead_LegacyWorkbook(t *testing.T) {
	// Row 3 has no record in the file. DEF in row 2 and ATK/DEF in row 4 use
	// the custom number format 0" pts".
	tbl, err := Read(filepath.Join("testdata", "cards.xls"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if tbl.Sheet != "Cards" {
		t.Errorf("Sheet = %q; want Cards", tbl.Sheet)
	}

	wantHeaders := []string{"ID", "Name", "Star", "ATK", "DEF", "Type"}
	if strings.Join(tbl.Headers, "|") != strings.Join(wantHeaders, "|") {
		t.Errorf("Headers = %q; want %q", tbl.Headers, wantHeaders)
	}

	want := [][]string{
		{"1", "Blue-Eyes White Dragon", "8", "3000", "2500", "Dragon"},
		{"2", "Thousand Dragon", "7", "2400", "2000", "Dragon/Fusion"},
	}
	if tbl.RowCount() != len(want) {
		t.Fatalf("RowCount = %d; want %d: %q", tbl.RowCount(), len(want), tbl.Rows)
	}
	for i, row := range want {
		if got := strings.Join(tbl.Rows[i], "|"); got != strings.Join(row, "|") {
			t.Errorf("row %d = %q; want %q", i, tbl.Rows[i], row)
		}
	}
}

func TestRead_LegacyWorkbookFormula(t *testing.T) {
	// B2 holds a formula with a cached number, C2 one with a cached string.
	tbl, err := Read(filepath.Join("testdata", "formula.xls"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	want := []string{"Imp", "1200", "Fiend"}
	if tbl.RowCount() != 1 {
		t.Fatalf("RowCount = %d; want 1", tbl.RowCount())
	}
	if got := strings.Join(tbl.Rows[0], "|"); got != strings.Join(want, "|") {
		t.Errorf("row = %q; want %q", tbl.Rows[0], want)
	}
}

func TestLegacyCell(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Text", "Dragon", "Dragon"},
		{"Plain number", "12.5", "12.5"},
		{"Empty", "", ""},
		{"Custom format stat", "1906-11-04T00:00:00Z", "2500"},
		{"Custom format small number", "1900-01-07T00:00:00Z", "8"},
		{"Custom format fraction", "1900-01-01T12:00:00Z", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := legacyCell(tt.text); got != tt.want {
				t.Errorf("legacyCell(%q) = %q; want %q", tt.text, got, tt.want)
			}
		})
	}
}

// biffRecord encodes one BIFF record.
func biffRecord(id uint16, body []byte) []byte {
	out := binary.LittleEndian.AppendUint16(nil, id)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(body)))
	return append(out, body...)
}

// formulaRecord encodes a FORMULA record for row/col with an 8-byte cached
// result and a one-token expression.
func formulaRecord(row, col uint16, result []byte) []byte {
	body := binary.LittleEndian.AppendUint16(nil, row)
	body = binary.LittleEndian.AppendUint16(body, col)
	body = binary.LittleEndian.AppendUint16(body, 0)
	body = append(body, result...)
	body = append(body, 0, 0, 0, 0, 0, 0)
	body = append(body, 3, 0, 0x1E, 0xB0, 0x04)
	return biffRecord(recFormula, body)
}

// sheetStream wraps sheet records in a minimal globals substream whose
// BOUNDSHEET points at them.
func sheetStream(records ...[]byte) []byte {
	boundSheet := biffRecord(recBoundSheet, make([]byte, 8))
	globals := append(boundSheet, biffRecord(recEOF, nil)...)
	binary.LittleEndian.PutUint32(globals[4:], uint32(len(globals)))

	stream := append(globals, biffRecord(0x0809, make([]byte, 16))...)
	for _, r := range records {
		stream = append(stream, r...)
	}
	return append(stream, biffRecord(recEOF, nil)...)
}

func TestFormulaResults(t *testing.T) {
	number := binary.LittleEndian.AppendUint64(nil, math.Float64bits(2500))
	special := func(kind, value byte) []byte {
		return []byte{kind, 0, value, 0, 0, 0, 0xFF, 0xFF}
	}

	latin := []byte{5, 0, 0}
	latin = append(latin, "Fiend"...)
	wide := []byte{2, 0, 1}
	for _, r := range "Mä" {
		wide = binary.LittleEndian.AppendUint16(wide, uint16(r))
	}

	tests := []struct {
		name    string
		records [][]byte
		want    map[cellRef]string
		wantErr string
	}{
		{
			name:    "Number",
			records: [][]byte{formulaRecord(1, 3, number)},
			want:    map[cellRef]string{{1, 3}: "2500"},
		},
		{
			name:    "String",
			records: [][]byte{formulaRecord(2, 0, special(0, 0)), biffRecord(recString, latin)},
			want:    map[cellRef]string{{2, 0}: "Fiend"},
		},
		{
			name:    "Wide string",
			records: [][]byte{formulaRecord(0, 1, special(0, 0)), biffRecord(recString, wide)},
			want:    map[cellRef]string{{0, 1}: "Mä"},
		},
		{
			name:    "Boolean",
			records: [][]byte{formulaRecord(4, 4, special(1, 1))},
			want:    map[cellRef]string{{4, 4}: "true"},
		},
		{
			name:    "Empty",
			records: [][]byte{formulaRecord(4, 5, special(3, 0))},
			want:    map[cellRef]string{{4, 5}: ""},
		},
		{
			name:    "Error value",
			records: [][]byte{formulaRecord(1, 3, special(2, 0x07))},
			wantErr: "cell D2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formulaResults(sheetStream(tt.records...))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("formulaResults error = %v; want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("formulaResults failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("formulaResults = %v; want %v", got, tt.want)
			}
			for ref, v := range tt.want {
				if got[ref] != v {
					t.Errorf("cell %s = %q; want %q", ref, got[ref], v)
				}
			}
		})
	}
}

func TestFormulaResults_Truncated(t *testing.T) {
	stream := sheetStream(formulaRecord(0, 0, make([]byte, 8)))
	if _, err := formulaResults(stream[:len(stream)-8]); !errors.Is(err, errTruncatedRecord) {
		t.Errorf("formulaResults error = %v; want %v", err, errTruncatedRecord)
	}
}

func TestRead_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	content := "\ufeffName,Spell/Trap\nMirror Force,Trap\n,\nPot,Spell,extra\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tbl.Headers[0] != "Name" {
		t.Errorf("Header 0 = %q; want BOM stripped", tbl.Headers[0])
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount = %d; want 2", tbl.RowCount())
	}
	if len(tbl.Rows[1]) != 3 {
		t.Errorf("ragged row kept %d cells; want 3", len(tbl.Rows[1]))
	}
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.xlsx")
	if err := os.WriteFile(corrupt, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	corruptLegacy := filepath.Join(dir, "corrupt.xls")
	if err := os.WriteFile(corruptLegacy, []byte("not a compound file"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"Unsupported extension", filepath.Join(dir, "cards.ods")},
		{"Missing file", filepath.Join(dir, "missing.xlsx")},
		{"Corrupt workbook", corrupt},
		{"Corrupt legacy workbook", corruptLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(tt.path); err == nil {
				t.Errorf("Read(%s) succeeded; want error", tt.path)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.xlsx", true},
		{"a.XLSM", true},
		{"a.xls", true},
		{"a.csv", true},
		{"a.ods", false},
		{"a", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v; want %v", tt.path, got, tt.want)
		}
	}
}
