package xlsx

import (
	"strings"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/xuri/excelize/v2"
)

// builtinFormats maps the built-in number format IDs that carry a fixed
// number of decimals or a percent sign.
var builtinFormats = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	49: "@",
}

// styleEdit is a pending change to one cell's style.
type styleEdit struct {
	textStyle  *models.TextStyle
	textColor  *models.Color
	background *models.Color
	decimals   *int
}

func (t *Table) edit(cell string, fn func(*styleEdit)) error {
	e, ok := t.pending[cell]
	if !ok {
		e = &styleEdit{}
		t.pending[cell] = e
		t.order = append(t.order, cell)
	}
	fn(e)
	if t.suspended {
		return nil
	}
	return t.flush()
}

// flush writes every pending edit in the order the cells were first touched.
func (t *Table) flush() error {
	order := t.order
	t.order = nil
	for i, cell := range order {
		e := t.pending[cell]
		delete(t.pending, cell)
		if err := t.apply(cell, e); err != nil {
			for _, rest := range order[i+1:] {
				delete(t.pending, rest)
			}
			return err
		}
	}
	return nil
}

// apply merges e into the cell's current style.
func (t *Table) apply(cell string, e *styleEdit) error {
	id, err := t.f.GetCellStyle(t.sheet, cell)
	if err != nil {
		return err
	}
	st, err := t.f.GetStyle(id)
	if err != nil {
		return err
	}
	if st == nil {
		st = &excelize.Style{}
	}

	if e.textStyle != nil || e.textColor != nil {
		if st.Font == nil {
			st.Font = &excelize.Font{}
		}
		if e.textStyle != nil {
			st.Font.Bold = e.textStyle.Bold()
			st.Font.Italic = e.textStyle.Italic()
		}
		if e.textColor != nil {
			st.Font.Color = e.textColor.Hex()
		}
	}
	if e.background != nil {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{e.background.Hex()}}
	}
	if e.decimals != nil {
		format := decimalFormat(formatOf(st), *e.decimals)
		st.NumFmt = 0
		st.DecimalPlaces = nil
		st.CustomNumFmt = &format
	}

	nid, err := t.f.NewStyle(st)
	if err != nil {
		return err
	}
	return t.f.SetCellStyle(t.sheet, cell, cell, nid)
}

func (t *Table) numberFormat(cell string) (string, error) {
	id, err := t.f.GetCellStyle(t.sheet, cell)
	if err != nil {
		return "", err
	}
	st, err := t.f.GetStyle(id)
	if err != nil || st == nil {
		return "General", err
	}
	return formatOf(st), nil
}

func formatOf(st *excelize.Style) string {
	if st.CustomNumFmt != nil && *st.CustomNumFmt != "" {
		return *st.CustomNumFmt
	}
	if f, ok := builtinFormats[st.NumFmt]; ok {
		return f
	}
	return "General"
}

// decimalFormat builds a format with the given number of decimals that
// keeps the grouping and percent sign of base.
func decimalFormat(base string, decimals int) string {
	var b strings.Builder
	if strings.Contains(base, "#,##") {
		b.WriteString("#,##")
	}
	b.WriteString("0")
	if decimals > 0 {
		b.WriteString(".")
		b.WriteString(strings.Repeat("0", decimals))
	}
	if strings.Contains(base, "%") {
		b.WriteString("%")
	}
	return b.String()
}
