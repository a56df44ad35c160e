package table

import (
	"fmt"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
)

// CellStyle records the styling applied to one cell of a Memory table.
type CellStyle struct {
	TextStyle  models.TextStyle
	TextColor  *models.Color
	Background *models.Color
	Decimals   *int
}

// Memory is an in-memory Table. It records every mutation so callers can
// inspect the outcome, and is the host used by the engine's tests.
type Memory struct {
	TableName    string
	TableSubtype string
	TableGroup   string
	Sig          models.SigMode

	// Updates counts SetUpdateScreen calls; Suspended is the current state.
	Updates   int
	Suspended bool
	// DataWidth is the last value passed to SetDataCellWidths.
	DataWidth float64

	rowLabels    *MemorySection
	columnLabels *MemorySection
	dataCells    *MemorySection
}

// NewMemory builds a table. columnLabels is levels x columns, rowLabels is
// rows x levels and data is rows x columns.
func NewMemory(name string, columnLabels, rowLabels, data [][]string) *Memory {
	return &Memory{
		TableName:    name,
		TableSubtype: name,
		Sig:          models.SigNone,
		rowLabels:    newMemorySection(rowLabels),
		columnLabels: newMemorySection(columnLabels),
		dataCells:    newMemorySection(data),
	}
}

func (m *Memory) Name() string                   { return m.TableName }
func (m *Memory) Subtype() string                { return m.TableSubtype }
func (m *Memory) Group() string                  { return m.TableGroup }
func (m *Memory) SigMarkerMode() models.SigMode  { return m.Sig }
func (m *Memory) RowLabels() (LabelArray, error) { return m.rowLabels, nil }
func (m *Memory) ColumnLabels() (LabelArray, error) {
	return m.columnLabels, nil
}
func (m *Memory) DataCells() (DataCellArray, error) { return m.dataCells, nil }

// Row returns the row label section for inspection.
func (m *Memory) Row() *MemorySection { return m.rowLabels }

// Column returns the column label section for inspection.
func (m *Memory) Column() *MemorySection { return m.columnLabels }

// Data returns the data cell section for inspection.
func (m *Memory) Data() *MemorySection { return m.dataCells }

// SetDataCellWidths records width.
func (m *Memory) SetDataCellWidths(width float64) error {
	m.DataWidth = width
	return nil
}

// SetUpdateScreen records the suspension state.
func (m *Memory) SetUpdateScreen(enabled bool) error {
	m.Updates++
	m.Suspended = !enabled
	return nil
}

// MemorySection is one section of a Memory table. It implements both
// LabelArray and DataCellArray.
type MemorySection struct {
	cells   [][]string
	raw     map[[2]int]string
	formats map[[2]int]string
	markers map[[2]int]string

	// NoUnformatted makes UnformattedValueAt return ErrUnsupported.
	NoUnformatted bool
	// HideErr, when set, is consulted before hiding a label.
	HideErr func(row, col int) error
	// StyleErr, when set, is consulted before every style call.
	StyleErr func(row, col int) error

	Styles      map[[2]int]*CellStyle
	Hidden      [][2]int
	Widths      map[int]float64
	LabelWidths map[int]float64
}

func newMemorySection(cells [][]string) *MemorySection {
	return &MemorySection{
		cells:       cells,
		raw:         make(map[[2]int]string),
		formats:     make(map[[2]int]string),
		markers:     make(map[[2]int]string),
		Styles:      make(map[[2]int]*CellStyle),
		Widths:      make(map[int]float64),
		LabelWidths: make(map[int]float64),
	}
}

func (s *MemorySection) NumRows() int { return len(s.cells) }

func (s *MemorySection) NumColumns() int {
	if len(s.cells) == 0 {
		return 0
	}
	return len(s.cells[0])
}

func (s *MemorySection) check(row, col int) error {
	if row < 0 || row >= len(s.cells) || col < 0 || col >= len(s.cells[row]) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, row, col)
	}
	return nil
}

func (s *MemorySection) ValueAt(row, col int) (string, error) {
	if err := s.check(row, col); err != nil {
		return "", err
	}
	return s.cells[row][col], nil
}

func (s *MemorySection) SetValueAt(row, col int, value string) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	s.cells[row][col] = value
	delete(s.raw, [2]int{row, col})
	return nil
}

// SetRaw sets the unformatted value of a cell, leaving its display text alone.
func (s *MemorySection) SetRaw(row, col int, raw string) { s.raw[[2]int{row, col}] = raw }

// SetFormat sets the numeric format of a cell.
func (s *MemorySection) SetFormat(row, col int, format string) { s.formats[[2]int{row, col}] = format }

// SetMarkers sets the significance markers of a cell.
func (s *MemorySection) SetMarkers(row, col int, markers string) {
	s.markers[[2]int{row, col}] = markers
}

func (s *MemorySection) UnformattedValueAt(row, col int) (string, error) {
	if s.NoUnformatted {
		return "", ErrUnsupported
	}
	if err := s.check(row, col); err != nil {
		return "", err
	}
	if raw, ok := s.raw[[2]int{row, col}]; ok {
		return raw, nil
	}
	return s.cells[row][col], nil
}

func (s *MemorySection) NumericFormatAt(row, col int) (string, error) {
	if err := s.check(row, col); err != nil {
		return "", err
	}
	return s.formats[[2]int{row, col}], nil
}

func (s *MemorySection) SigMarkersAt(row, col int) (string, error) {
	if err := s.check(row, col); err != nil {
		return "", err
	}
	return s.markers[[2]int{row, col}], nil
}

// Style returns the recorded style of a cell, nil if it was never styled.
func (s *MemorySection) Style(row, col int) *CellStyle { return s.Styles[[2]int{row, col}] }

func (s *MemorySection) style(row, col int) (*CellStyle, error) {
	if err := s.check(row, col); err != nil {
		return nil, err
	}
	if s.StyleErr != nil {
		if err := s.StyleErr(row, col); err != nil {
			return nil, err
		}
	}
	key := [2]int{row, col}
	cs, ok := s.Styles[key]
	if !ok {
		cs = &CellStyle{}
		s.Styles[key] = cs
	}
	return cs, nil
}

func (s *MemorySection) SetTextStyleAt(row, col int, style models.TextStyle) error {
	cs, err := s.style(row, col)
	if err != nil {
		return err
	}
	cs.TextStyle = style
	return nil
}

func (s *MemorySection) SetTextColorAt(row, col int, color models.Color) error {
	cs, err := s.style(row, col)
	if err != nil {
		return err
	}
	cs.TextColor = &color
	return nil
}

func (s *MemorySection) SetBackgroundColorAt(row, col int, color models.Color) error {
	cs, err := s.style(row, col)
	if err != nil {
		return err
	}
	cs.Background = &color
	return nil
}

func (s *MemorySection) SetDecimalsAt(row, col, decimals int) error {
	cs, err := s.style(row, col)
	if err != nil {
		return err
	}
	cs.Decimals = &decimals
	return nil
}

func (s *MemorySection) HideLabelsWithDataAt(row, col int) error {
	if err := s.check(row, col); err != nil {
		return err
	}
	if s.HideErr != nil {
		if err := s.HideErr(row, col); err != nil {
			return err
		}
	}
	s.Hidden = append(s.Hidden, [2]int{row, col})
	return nil
}

func (s *MemorySection) SetRowLabelWidthAt(row, col int, width float64) error {
	if col < 0 || col >= s.NumColumns() {
		return fmt.Errorf("%w: label column %d", ErrOutOfRange, col)
	}
	s.LabelWidths[col] = width
	return nil
}

func (s *MemorySection) ResizeColumn(col int, width float64) error {
	if col < 0 || col >= s.NumColumns() {
		return fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	s.Widths[col] = width
	return nil
}

// MemoryDocument is an in-memory Document.
type MemoryDocument struct {
	BookName string
	Items    []Table
}

// Name returns the document name.
func (d *MemoryDocument) Name() string { return d.BookName }

// Tables returns the tables in document order.
func (d *MemoryDocument) Tables() ([]Table, error) { return d.Items, nil }
