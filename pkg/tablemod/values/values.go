// Package values converts cell text to numbers.
package values

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

// Parse returns s as a float64 when it is a plain number, otherwise s itself.
func Parse(s string) any {
	if f, ok := Number(s); ok {
		return f
	}
	return s
}

// Number parses a plain number, ignoring surrounding space.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}

// Display parses a formatted display value such as "1,234.5", "45%", "$12",
// "(3.2)" or "4.5E-03". format is the cell's number format; when it writes
// the decimal separator as a comma, "." and "," swap roles. Percent values
// are returned as displayed, without scaling.
func Display(s, format string) (float64, bool) {
	s = strings.TrimSpace(s)
	if f, ok := Number(s); ok {
		return f, true
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimLeft(s, "$€£¥ ")
	decimal, group := ".", ","
	if commaDecimal(format) {
		decimal, group = ",", "."
	}
	s = strings.ReplaceAll(s, group, "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if decimal == "," {
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, ok := Number(s)
	if !ok {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// commaDecimal reports whether format uses a comma as the decimal separator,
// as in "#.##0,00".
func commaDecimal(format string) bool {
	comma := strings.LastIndex(format, ",")
	dot := strings.LastIndex(format, ".")
	return comma >= 0 && comma > dot && dot >= 0
}

// Cell returns the value of a data cell for expression evaluation: the
// unformatted value as a float64 when the host provides it, else the
// display value parsed with its format, else the display text.
func Cell(cells table.DataCellArray, row, col int) (any, error) {
	raw, err := cells.UnformattedValueAt(row, col)
	switch {
	case err == nil:
		if f, ok := Number(raw); ok {
			return f, nil
		}
	case !errors.Is(err, table.ErrUnsupported):
		return nil, err
	default:
		text, err := cells.ValueAt(row, col)
		if err != nil {
			return nil, err
		}
		format, _ := cells.NumericFormatAt(row, col)
		if f, ok := Display(text, format); ok {
			return f, nil
		}
		return text, nil
	}
	return cells.ValueAt(row, col)
}

// CellNumber is like Cell but only reports numeric values.
func CellNumber(cells table.DataCellArray, row, col int) (float64, bool) {
	v, err := Cell(cells, row, col)
	if err != nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
