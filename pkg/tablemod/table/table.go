// Package table defines the host table object model the modification engine works against.
//
// A Table exposes three sections: the row label array, the column label array and the
// data cell grid. Label arrays are level x position grids: for column labels rows are
// levels (0 is outermost) and columns are positions; for row labels rows are positions
// and columns are levels.
package table

import (
	"errors"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
)

// ErrUnsupported is returned by optional host operations the host does not provide.
var ErrUnsupported = errors.New("operation not supported by table host")

// ErrOutOfRange is returned when a cell coordinate is outside a section.
var ErrOutOfRange = errors.New("cell coordinate out of range")

// Section is a rectangular grid of cells.
type Section interface {
	NumRows() int
	NumColumns() int
	ValueAt(row, col int) (string, error)
	SetValueAt(row, col int, value string) error
	SetTextStyleAt(row, col int, style models.TextStyle) error
	SetTextColorAt(row, col int, color models.Color) error
	SetBackgroundColorAt(row, col int, color models.Color) error
}

// LabelArray is a row or column label array.
type LabelArray interface {
	Section
	// HideLabelsWithDataAt hides the label at (row, col) together with its data.
	HideLabelsWithDataAt(row, col int) error
	// SetRowLabelWidthAt sets the width in points of the row label column col.
	SetRowLabelWidthAt(row, col int, width float64) error
}

// DataCellArray is the data cell grid.
type DataCellArray interface {
	Section
	// UnformattedValueAt returns the stored value without display formatting.
	// Hosts that cannot provide it return ErrUnsupported.
	UnformattedValueAt(row, col int) (string, error)
	// NumericFormatAt returns the display format of the cell.
	NumericFormatAt(row, col int) (string, error)
	SetDecimalsAt(row, col, decimals int) error
	// ResizeColumn sets the width in points of data column col.
	ResizeColumn(col int, width float64) error
	// SigMarkersAt returns the significance marker letters of the cell, "" if none.
	SigMarkersAt(row, col int) (string, error)
}

// Table is one labeled table.
type Table interface {
	// Name identifies the table in reports.
	Name() string
	// Subtype is matched against the requested subtypes.
	Subtype() string
	// Group names the output block the table belongs to (a sheet for workbooks).
	Group() string
	RowLabels() (LabelArray, error)
	ColumnLabels() (LabelArray, error)
	DataCells() (DataCellArray, error)
	// SetDataCellWidths sets every data column to width points.
	SetDataCellWidths(width float64) error
	// SetUpdateScreen suspends (false) or resumes (true) visual updates.
	SetUpdateScreen(enabled bool) error
	SigMarkerMode() models.SigMode
}

// Document is an ordered collection of tables.
type Document interface {
	Tables() ([]Table, error)
}
