// Package xlsx hosts the table modification engine on Excel workbooks.
//
// Every table found on a sheet is split into three sections by two counts:
// the first HeaderRows rows hold the column labels, the first LabelColumns
// columns hold the row labels, and the rest are data cells.
package xlsx

import (
	"path/filepath"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
	"github.com/xuri/excelize/v2"
)

// Options configures how tables are found and split.
type Options struct {
	// HeaderRows is the number of column label levels of each table.
	HeaderRows int
	// LabelColumns is the number of row label levels of each table.
	LabelColumns int
	// Sig is the significance marker mode; auto detects it per table.
	Sig models.SigMode
	// Detection tunes bounding box detection on sheets without tables.
	Detection DetectionParams
}

// DefaultOptions returns the default workbook options.
func DefaultOptions() Options {
	return Options{
		HeaderRows:   1,
		LabelColumns: 1,
		Sig:          models.SigAuto,
		Detection:    DefaultDetectionParams(),
	}
}

// Workbook is a table.Document backed by an Excel file.
type Workbook struct {
	f      *excelize.File
	name   string
	opts   Options
	tables []table.Table
	loaded bool
}

// Open opens the workbook at path.
func Open(path string, opts Options) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return New(f, filepath.Base(path), opts), nil
}

// New wraps an already open file.
func New(f *excelize.File, name string, opts Options) *Workbook {
	if opts.HeaderRows < 0 {
		opts.HeaderRows = 0
	}
	if opts.LabelColumns < 0 {
		opts.LabelColumns = 0
	}
	if opts.Sig == "" {
		opts.Sig = models.SigAuto
	}
	return &Workbook{f: f, name: name, opts: opts}
}

// Name returns the workbook file name.
func (w *Workbook) Name() string { return w.name }

// File returns the underlying excelize file.
func (w *Workbook) File() *excelize.File { return w.f }

// Tables returns the tables of every sheet in sheet order. Discovery runs once.
func (w *Workbook) Tables() ([]table.Table, error) {
	if w.loaded {
		return w.tables, nil
	}
	areas := printAreas(w.f)
	var tables []table.Table
	for _, sheet := range w.f.GetSheetList() {
		found, err := discoverSheet(w.f, sheet, areas[sheet], w.opts.Detection)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			tables = append(tables, w.newTable(sheet, c))
		}
	}
	w.tables = tables
	w.loaded = true
	return tables, nil
}

// Save writes the workbook back to the file it was opened from.
func (w *Workbook) Save() error {
	return w.f.Save()
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	return w.f.SaveAs(path)
}

// Close closes the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}
