package card

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/cardsheet/internal/columns"
	"gopkg.in/guregu/null.v3"
)

// Cell is one resolved cell value of a row. An invalid Cell is "missing":
// the field has no column, the row ends before the column, or the cell is
// blank. Valid cells hold whitespace-trimmed text.
type Cell struct {
	null.String
}

// MissingCell is the zero Cell.
var MissingCell = Cell{}

// CellOf wraps raw cell text. Blank text yields a missing cell.
func CellOf(raw string) Cell {
	s := strings.TrimSpace(raw)
	return Cell{null.NewString(s, s != "")}
}

// Lookup returns the cell feeding field in row, or MissingCell if the field
// is unresolved or the row is too short.
func Lookup(row []string, mapping columns.Mapping, field string) Cell {
	col, ok := mapping[field]
	if !ok || col.Index >= len(row) {
		return MissingCell
	}
	return CellOf(row[col.Index])
}

// Missing reports whether the cell has no value.
func (c Cell) Missing() bool {
	return !c.Valid
}

// StringOr returns the cell text, or def if the cell is missing.
func (c Cell) StringOr(def string) string {
	if c.Missing() {
		return def
	}
	return c.String.String
}

// Int coerces the cell to an integer. A missing cell yields an invalid
// null.Int and no error. Decimal values are truncated toward zero.
func (c Cell) Int() (null.Int, error) {
	if c.Missing() {
		return null.Int{}, nil
	}
	v, err := parseInt(c.String.String)
	if err != nil {
		return null.Int{}, err
	}
	return null.IntFrom(v), nil
}

// parseInt accepts plain integers and decimal numbers. Workbooks store all
// numbers as floating point, so 7 can arrive as "7" or "7.0".
func parseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return int64(math.Trunc(f)), nil
}
