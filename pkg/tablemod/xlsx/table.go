package xlsx

import (
	"fmt"
	"regexp"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/sigmap"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/values"
	"github.com/xuri/excelize/v2"
)

// markerPattern matches a numeric display value followed by significance letters.
var markerPattern = regexp.MustCompile(`^[^A-Za-z]*[0-9][^A-Za-z]*?\s*([A-Za-z]+)$`)

// Table is one table region of a sheet.
type Table struct {
	f       *excelize.File
	sheet   string
	name    string
	subtype string
	region  models.Region
	header  int
	labels  int
	sig     models.SigMode

	suspended bool
	pending   map[string]*styleEdit
	order     []string
	merges    map[string]models.Region
}

func (w *Workbook) newTable(sheet string, c candidate) *Table {
	header := w.opts.HeaderRows
	if c.header != nil && !*c.header {
		header = 0
	}
	header = min(header, c.region.Rows())
	return &Table{
		f:       w.f,
		sheet:   sheet,
		name:    c.name,
		subtype: c.subtype,
		region:  c.region,
		header:  header,
		labels:  min(w.opts.LabelColumns, c.region.Cols()),
		sig:     w.opts.Sig,
		pending: make(map[string]*styleEdit),
	}
}

func (t *Table) Name() string          { return t.name }
func (t *Table) Subtype() string       { return t.subtype }
func (t *Table) Group() string         { return t.sheet }
func (t *Table) Region() models.Region { return t.region }
func (t *Table) Sheet() string         { return t.sheet }

// ColumnLabels returns the header rows above the data columns.
func (t *Table) ColumnLabels() (table.LabelArray, error) {
	return t.section(columnLabels), nil
}

// RowLabels returns the label columns left of the data rows.
func (t *Table) RowLabels() (table.LabelArray, error) {
	return t.section(rowLabels), nil
}

// DataCells returns the data cell grid.
func (t *Table) DataCells() (table.DataCellArray, error) {
	return t.section(dataCells), nil
}

func (t *Table) section(kind sectionKind) *Section {
	r, h, l := t.region, t.header, t.labels
	s := &Section{t: t, kind: kind}
	switch kind {
	case columnLabels:
		s.row0, s.col0 = r.R1, r.C1+l
		s.rows, s.cols = h, r.Cols()-l
	case rowLabels:
		s.row0, s.col0 = r.R1+h, r.C1
		s.rows, s.cols = r.Rows()-h, l
	default:
		s.row0, s.col0 = r.R1+h, r.C1+l
		s.rows, s.cols = r.Rows()-h, r.Cols()-l
	}
	return s
}

// SetDataCellWidths sets every data column to width points.
func (t *Table) SetDataCellWidths(width float64) error {
	first := t.region.C1 + t.labels
	if first > t.region.C2 {
		return nil
	}
	start, err := excelize.ColumnNumberToName(first)
	if err != nil {
		return err
	}
	end, err := excelize.ColumnNumberToName(t.region.C2)
	if err != nil {
		return err
	}
	return t.f.SetColWidth(t.sheet, start, end, PointsToWidth(width))
}

// SetUpdateScreen buffers style changes while disabled and writes them
// when re-enabled.
func (t *Table) SetUpdateScreen(enabled bool) error {
	t.suspended = !enabled
	if enabled {
		return t.flush()
	}
	return nil
}

// SigMarkerMode returns the configured mode, detecting it from the column
// labels in auto mode.
func (t *Table) SigMarkerMode() models.SigMode {
	if t.sig != models.SigAuto {
		return t.sig
	}
	t.sig = models.SigNone
	labels, _ := t.ColumnLabels()
	if m, err := sigmap.Build(labels); err == nil && m != nil {
		t.sig = models.SigSimple
	}
	return t.sig
}

// mergeAt returns the merged range starting at cell, if any.
func (t *Table) mergeAt(cell string) (models.Region, bool, error) {
	if t.merges == nil {
		merged, err := t.f.GetMergeCells(t.sheet)
		if err != nil {
			return models.Region{}, false, err
		}
		t.merges = make(map[string]models.Region, len(merged))
		for _, m := range merged {
			if r, ok := parseRange(m.GetStartAxis() + ":" + m.GetEndAxis()); ok {
				t.merges[m.GetStartAxis()] = r
			}
		}
	}
	r, ok := t.merges[cell]
	return r, ok, nil
}

type sectionKind int

const (
	dataCells sectionKind = iota
	columnLabels
	rowLabels
)

func (k sectionKind) String() string {
	switch k {
	case columnLabels:
		return "column labels"
	case rowLabels:
		return "row labels"
	}
	return "data cells"
}

// Section is one section of a Table. It implements both table.LabelArray
// and table.DataCellArray.
type Section struct {
	t          *Table
	kind       sectionKind
	row0, col0 int
	rows, cols int
}

func (s *Section) NumRows() int    { return s.rows }
func (s *Section) NumColumns() int { return s.cols }

func (s *Section) cell(row, col int) (string, error) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return "", fmt.Errorf("%w: (%d, %d) in %s", table.ErrOutOfRange, row, col, s.kind)
	}
	return excelize.CoordinatesToCellName(s.col0+col, s.row0+row)
}

func (s *Section) ValueAt(row, col int) (string, error) {
	cell, err := s.cell(row, col)
	if err != nil {
		return "", err
	}
	return s.t.f.GetCellValue(s.t.sheet, cell)
}

// SetValueAt stores numbers as numbers and everything else as text.
func (s *Section) SetValueAt(row, col int, value string) error {
	cell, err := s.cell(row, col)
	if err != nil {
		return err
	}
	if f, ok := values.Number(value); ok {
		return s.t.f.SetCellFloat(s.t.sheet, cell, f, -1, 64)
	}
	return s.t.f.SetCellStr(s.t.sheet, cell, value)
}

func (s *Section) UnformattedValueAt(row, col int) (string, error) {
	cell, err := s.cell(row, col)
	if err != nil {
		return "", err
	}
	return s.t.f.GetCellValue(s.t.sheet, cell, excelize.Options{RawCellValue: true})
}

func (s *Section) NumericFormatAt(row, col int) (string, error) {
	cell, err := s.cell(row, col)
	if err != nil {
		return "", err
	}
	return s.t.numberFormat(cell)
}

// SigMarkersAt returns the letters trailing a numeric display value.
func (s *Section) SigMarkersAt(row, col int) (string, error) {
	v, err := s.ValueAt(row, col)
	if err != nil {
		return "", err
	}
	if m := markerPattern.FindStringSubmatch(v); m != nil {
		return m[1], nil
	}
	return "", nil
}

func (s *Section) SetTextStyleAt(row, col int, style models.TextStyle) error {
	return s.edit(row, col, func(e *styleEdit) { e.textStyle = &style })
}

// Colors are checked when queued so that a bad color fails the call that
// set it even while updates are suspended.
func (s *Section) SetTextColorAt(row, col int, color models.Color) error {
	if !color.Valid() {
		return fmt.Errorf("invalid text color: %d", color)
	}
	return s.edit(row, col, func(e *styleEdit) { e.textColor = &color })
}

func (s *Section) SetBackgroundColorAt(row, col int, color models.Color) error {
	if !color.Valid() {
		return fmt.Errorf("invalid background color: %d", color)
	}
	return s.edit(row, col, func(e *styleEdit) { e.background = &color })
}

func (s *Section) SetDecimalsAt(row, col, decimals int) error {
	if decimals < 0 || decimals > 30 {
		return fmt.Errorf("invalid number of decimals: %d", decimals)
	}
	return s.edit(row, col, func(e *styleEdit) { e.decimals = &decimals })
}

func (s *Section) edit(row, col int, fn func(*styleEdit)) error {
	cell, err := s.cell(row, col)
	if err != nil {
		return err
	}
	return s.t.edit(cell, fn)
}

// HideLabelsWithDataAt hides the sheet columns (column labels) or rows (row
// labels) the label spans. Outer labels span their merged range, or the
// blank cells following them up to the next label of the same level.
func (s *Section) HideLabelsWithDataAt(row, col int) error {
	first, last, err := s.span(row, col)
	if err != nil {
		return err
	}
	switch s.kind {
	case columnLabels:
		start, err := excelize.ColumnNumberToName(s.col0 + first)
		if err != nil {
			return err
		}
		end, err := excelize.ColumnNumberToName(s.col0 + last)
		if err != nil {
			return err
		}
		return s.t.f.SetColVisible(s.t.sheet, start+":"+end, false)
	case rowLabels:
		for r := first; r <= last; r++ {
			if err := s.t.f.SetRowVisible(s.t.sheet, s.row0+r, false); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: hide in %s", table.ErrUnsupported, s.kind)
}

// span returns the first and last position covered by the label at (row, col).
func (s *Section) span(row, col int) (int, int, error) {
	cell, err := s.cell(row, col)
	if err != nil {
		return 0, 0, err
	}
	pos, level, extent, depth := col, row, s.cols, s.rows
	if s.kind == rowLabels {
		pos, level, extent, depth = row, col, s.rows, s.cols
	}
	if level == depth-1 {
		return pos, pos, nil
	}
	if m, ok, err := s.t.mergeAt(cell); err != nil {
		return 0, 0, err
	} else if ok {
		last := m.C2 - s.col0
		if s.kind == rowLabels {
			last = m.R2 - s.row0
		}
		return pos, min(max(last, pos), extent-1), nil
	}
	last := pos
	for next := pos + 1; next < extent; next++ {
		r, c := level, next
		if s.kind == rowLabels {
			r, c = next, level
		}
		v, err := s.ValueAt(r, c)
		if err != nil {
			return 0, 0, err
		}
		if v != "" {
			break
		}
		last = next
	}
	return pos, last, nil
}

// SetRowLabelWidthAt sets the width in points of row label column col.
func (s *Section) SetRowLabelWidthAt(row, col int, width float64) error {
	if s.kind != rowLabels {
		return fmt.Errorf("%w: label width in %s", table.ErrUnsupported, s.kind)
	}
	return s.setWidth(col, width)
}

// ResizeColumn sets the width in points of data column col.
func (s *Section) ResizeColumn(col int, width float64) error {
	if s.kind != dataCells {
		return fmt.Errorf("%w: resize in %s", table.ErrUnsupported, s.kind)
	}
	return s.setWidth(col, width)
}

func (s *Section) setWidth(col int, width float64) error {
	if col < 0 || col >= s.cols {
		return fmt.Errorf("%w: column %d in %s", table.ErrOutOfRange, col, s.kind)
	}
	name, err := excelize.ColumnNumberToName(s.col0 + col)
	if err != nil {
		return err
	}
	return s.t.f.SetColWidth(s.t.sheet, name, name, PointsToWidth(width))
}
