package plugins

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/values"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SetDecimalPlaces sets the number of decimals shown in data cells.
func SetDecimalPlaces(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	if section != models.DataCells {
		return plugin.Continue, nil
	}
	decimals, err := custom.Int("decimals", 2)
	if err != nil {
		return plugin.Continue, err
	}
	d, err := dataCells(obj)
	if err != nil {
		return plugin.Continue, err
	}
	return plugin.Applied, d.SetDecimalsAt(row, col, decimals)
}

// HideBlankRow hides a data row, with its innermost row label, when every cell in it is empty.
func HideBlankRow(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
	if section != models.DataCells {
		return plugin.Continue, nil
	}
	for c := 0; c < numCols; c++ {
		v, err := obj.ValueAt(row, c)
		if err != nil {
			return plugin.Continue, err
		}
		if strings.TrimSpace(v) != "" {
			return plugin.Continue, nil
		}
	}
	labels, err := ctx.RowLabels()
	if err != nil {
		return plugin.Continue, err
	}
	return plugin.Applied, labels.HideLabelsWithDataAt(row, labels.NumColumns()-1)
}

// HideRowBasedOnValues hides a row label with its data when no data value in
// the row exceeds threshold. omitfirst and omitlast exclude leading and
// trailing columns, such as totals, from the test. Non-numeric cells are ignored.
func HideRowBasedOnValues(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	if section != models.Labels {
		return plugin.Continue, nil
	}
	threshold, err := custom.Float("threshold", -1e8)
	if err != nil {
		return plugin.Continue, err
	}
	omitFirst, err := custom.Int("omitfirst", 0)
	if err != nil {
		return plugin.Continue, err
	}
	omitLast, err := custom.Int("omitlast", 0)
	if err != nil {
		return plugin.Continue, err
	}
	data, err := ctx.DataCells()
	if err != nil {
		return plugin.Continue, err
	}
	for c := omitFirst; c < data.NumColumns()-omitLast; c++ {
		if v, ok := values.CellNumber(data, row, c); ok && v > threshold {
			return plugin.Continue, nil
		}
	}
	labels, ok := obj.(table.LabelArray)
	if !ok {
		return plugin.Continue, fmt.Errorf("%T is not a label array", obj)
	}
	return plugin.Applied, labels.HideLabelsWithDataAt(row, col)
}

type sortRow struct {
	label  string
	num    float64
	isNum  bool
	text   string
	values []string
}

// SortTable sorts the data rows, and the innermost row labels with them, by
// the values of the visited column. direction is 'a' (default) or 'd'.
// Numbers sort before text. The whole table is sorted by the first call, so
// it stops further processing of the table.
func SortTable(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	if section != models.DataCells {
		return plugin.Continue, nil
	}
	direction, err := custom.String("direction", "a")
	if err != nil {
		return plugin.Continue, err
	}
	direction = strings.ToLower(direction)
	if direction != "a" && direction != "d" {
		return plugin.Continue, errors.New("direction must be 'a' or 'd'")
	}
	data, err := dataCells(obj)
	if err != nil {
		return plugin.Continue, err
	}
	labels, err := ctx.RowLabels()
	if err != nil {
		return plugin.Continue, err
	}
	labelCol := labels.NumColumns() - 1

	rows := make([]sortRow, numRows)
	for r := 0; r < numRows; r++ {
		sr := sortRow{values: make([]string, numCols)}
		if labelCol >= 0 {
			if sr.label, err = labels.ValueAt(r, labelCol); err != nil {
				return plugin.Continue, err
			}
		}
		key, err := values.Cell(data, r, col)
		if err != nil {
			return plugin.Continue, err
		}
		sr.num, sr.isNum = key.(float64)
		if !sr.isNum {
			sr.text = fmt.Sprint(key)
		}
		for c := 0; c < numCols; c++ {
			if sr.values[c], err = data.ValueAt(r, c); err != nil {
				return plugin.Continue, err
			}
		}
		rows[r] = sr
	}

	less := func(a, b sortRow) bool {
		if a.isNum != b.isNum {
			return a.isNum
		}
		if a.isNum {
			return a.num < b.num
		}
		return a.text < b.text
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if direction == "d" {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})

	for r, sr := range rows {
		if labelCol >= 0 {
			if err := labels.SetValueAt(r, labelCol, sr.label); err != nil {
				return plugin.Continue, err
			}
		}
		for c, v := range sr.values {
			if err := data.SetValueAt(r, c, v); err != nil {
				return plugin.Continue, err
			}
		}
	}
	return plugin.Stop, nil
}

// BlankTableTriangle blanks the upper (default) or lower triangle of the data
// cells, once per invocation. When rows outnumber columns each column spans
// numRows/numCols rows, and the other way round.
func BlankTableTriangle(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	if !custom.First() {
		return plugin.Continue, nil
	}
	custom.SetFirst(false)
	triangle, err := custom.String("triangle", "upper")
	if err != nil {
		return plugin.Continue, err
	}
	upper := strings.ToLower(triangle) != "lower"
	data, err := ctx.DataCells()
	if err != nil {
		return plugin.Continue, err
	}
	rows, cols := data.NumRows(), data.NumColumns()
	if rows == 0 || cols == 0 {
		return plugin.Continue, nil
	}
	rowStep := max(rows/cols, 1)
	colStep := max(cols/rows, 1)

	blank := func(r, c int) bool {
		if rows >= cols {
			if upper {
				return r < c*rowStep
			}
			return r >= (c+1)*rowStep
		}
		if upper {
			return c >= (r+1)*colStep
		}
		return c < r*colStep
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !blank(r, c) {
				continue
			}
			if err := data.SetValueAt(r, c, ""); err != nil {
				return plugin.Continue, err
			}
		}
	}
	return plugin.Applied, nil
}

// Reletter replaces significance letters. In labels a trailing "(B)" becomes
// "(" + replacement + ")"; in data cells every mapped letter is replaced.
// letters gives the replacements for A, B, ... either one character each or,
// when it contains commas, one comma separated group each.
func Reletter(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	mapping, ok := custom["map"].(map[string]string)
	if custom.First() || !ok {
		spec, err := custom.String("letters", "")
		if err != nil {
			return plugin.Continue, err
		}
		var repl []string
		if strings.Contains(spec, ",") {
			repl = strings.Split(spec, ",")
		} else {
			repl = strings.Split(spec, "")
		}
		mapping = make(map[string]string, len(repl))
		for i, r := range repl {
			if i >= len(letters) {
				break
			}
			mapping[letters[i:i+1]] = r
		}
		custom["map"] = mapping
		custom.SetFirst(false)
	}

	v, err := obj.ValueAt(row, col)
	if err != nil {
		return plugin.Continue, nil
	}
	var out string
	if section == models.Labels {
		n := len(v)
		if n < 3 || v[n-1] != ')' || v[n-3] != '(' {
			return plugin.Continue, nil
		}
		r, ok := mapping[v[n-2:n-1]]
		if !ok {
			return plugin.Continue, nil
		}
		out = v[:n-2] + r + ")"
	} else {
		var b strings.Builder
		for _, c := range v {
			if r, ok := mapping[string(c)]; ok {
				b.WriteString(r)
			} else {
				b.WriteRune(c)
			}
		}
		out = b.String()
	}
	if out == v {
		return plugin.Continue, nil
	}
	if err := obj.SetValueAt(row, col, out); err != nil {
		return plugin.Continue, nil
	}
	return plugin.Applied, nil
}
