package xlsx

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
	"github.com/xuri/excelize/v2"
)

// newBook returns a workbook with one crosstab on Sheet1:
//
//	     | Male (A) | Female (B)
//	Yes  | 40       | 60% A
//	No   | 30       | 70
func newBook(t *testing.T, opts Options) (*Workbook, *excelize.File) {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	sheet := "Sheet1"
	f.SetCellValue(sheet, "B1", "Male (A)")
	f.SetCellValue(sheet, "C1", "Female (B)")
	f.SetCellValue(sheet, "A2", "Yes")
	f.SetCellValue(sheet, "B2", 40)
	f.SetCellValue(sheet, "C2", "60% A")
	f.SetCellValue(sheet, "A3", "No")
	f.SetCellValue(sheet, "B3", 30)
	f.SetCellValue(sheet, "C3", 70)
	return New(f, "book.xlsx", opts), f
}

func firstTable(t *testing.T, wb *Workbook) *Table {
	t.Helper()
	tables, err := wb.Tables()
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	if len(tables) == 0 {
		t.Fatal("no tables found")
	}
	return tables[0].(*Table)
}

func cellStyle(t *testing.T, f *excelize.File, cell string) *excelize.Style {
	t.Helper()
	id, err := f.GetCellStyle("Sheet1", cell)
	if err != nil {
		t.Fatalf("GetCellStyle(%s) failed: %v", cell, err)
	}
	st, err := f.GetStyle(id)
	if err != nil {
		t.Fatalf("GetStyle(%d) failed: %v", id, err)
	}
	return st
}

func TestDetectedTableSections(t *testing.T) {
	wb, _ := newBook(t, DefaultOptions())
	tbl := firstTable(t, wb)

	if tbl.Name() != "Sheet1!A1:C3" || tbl.Subtype() != "Sheet1" || tbl.Group() != "Sheet1" {
		t.Errorf("table = %q %q %q", tbl.Name(), tbl.Subtype(), tbl.Group())
	}
	if want := (models.Region{R1: 1, C1: 1, R2: 3, C2: 3}); tbl.Region() != want {
		t.Errorf("Region() = %v, expected %v", tbl.Region(), want)
	}

	cols, _ := tbl.ColumnLabels()
	rows, _ := tbl.RowLabels()
	data, _ := tbl.DataCells()
	dims := [][2]int{
		{cols.NumRows(), cols.NumColumns()},
		{rows.NumRows(), rows.NumColumns()},
		{data.NumRows(), data.NumColumns()},
	}
	if want := [][2]int{{1, 2}, {2, 1}, {2, 2}}; !reflect.DeepEqual(dims, want) {
		t.Errorf("section dimensions = %v, expected %v", dims, want)
	}

	checks := []struct {
		section table.Section
		row     int
		col     int
		want    string
	}{
		{cols, 0, 1, "Female (B)"},
		{rows, 1, 0, "No"},
		{data, 0, 0, "40"},
		{data, 1, 1, "70"},
	}
	for _, c := range checks {
		if got, err := c.section.ValueAt(c.row, c.col); err != nil || got != c.want {
			t.Errorf("ValueAt(%d, %d) = %q, %v, expected %q", c.row, c.col, got, err, c.want)
		}
	}
	if _, err := data.ValueAt(2, 0); err == nil {
		t.Error("ValueAt outside the data cells succeeded")
	}
}

func TestExcelTablesTakePrecedence(t *testing.T) {
	wb, f := newBook(t, DefaultOptions())
	if _, err := f.NewSheet("Freq"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Freq", "B2", "Label")
	f.SetCellValue("Freq", "C2", "Count")
	f.SetCellValue("Freq", "B3", "a")
	f.SetCellValue("Freq", "C3", 1)
	f.SetCellValue("Freq", "Z40", "stray")
	if err := f.AddTable("Freq", &excelize.Table{Range: "B2:C3", Name: "Frequencies"}); err != nil {
		t.Fatalf("AddTable failed: %v", err)
	}

	tables, err := wb.Tables()
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	var names []string
	for _, tbl := range tables {
		names = append(names, tbl.Name()+"/"+tbl.Subtype()+"/"+tbl.Group())
	}
	expected := []string{"Sheet1!A1:C3/Sheet1/Sheet1", "Freq!Frequencies/Frequencies/Freq"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("tables = %v, expected %v", names, expected)
	}
}

func TestStylesAreBufferedWhileSuspended(t *testing.T) {
	wb, f := newBook(t, DefaultOptions())
	tbl := firstTable(t, wb)
	data, _ := tbl.DataCells()

	if err := tbl.SetUpdateScreen(false); err != nil {
		t.Fatalf("SetUpdateScreen(false) failed: %v", err)
	}
	if err := data.SetTextStyleAt(0, 0, models.StyleBold); err != nil {
		t.Fatalf("SetTextStyleAt failed: %v", err)
	}
	if err := data.SetBackgroundColorAt(0, 0, models.RGB(255, 255, 0)); err != nil {
		t.Fatalf("SetBackgroundColorAt failed: %v", err)
	}
	if id, _ := f.GetCellStyle("Sheet1", "B2"); id != 0 {
		t.Errorf("style written while suspended: %d", id)
	}
	if err := tbl.SetUpdateScreen(true); err != nil {
		t.Fatalf("SetUpdateScreen(true) failed: %v", err)
	}

	st := cellStyle(t, f, "B2")
	if st.Font == nil || !st.Font.Bold || st.Font.Italic {
		t.Errorf("font = %+v, expected bold", st.Font)
	}
	if len(st.Fill.Color) != 1 || !strings.HasSuffix(strings.ToUpper(st.Fill.Color[0]), "FFFF00") {
		t.Errorf("fill = %+v, expected yellow", st.Fill)
	}
}

func TestInvalidColorFailsWhileSuspended(t *testing.T) {
	wb, f := newBook(t, DefaultOptions())
	tbl := firstTable(t, wb)
	data, _ := tbl.DataCells()

	if err := tbl.SetUpdateScreen(false); err != nil {
		t.Fatalf("SetUpdateScreen(false) failed: %v", err)
	}
	if err := data.SetBackgroundColorAt(0, 0, models.Color(0x1000000)); err == nil {
		t.Error("SetBackgroundColorAt accepted an invalid color")
	}
	if err := data.SetTextColorAt(0, 0, models.Color(-1)); err == nil {
		t.Error("SetTextColorAt accepted an invalid color")
	}
	if err := data.SetBackgroundColorAt(5, 0, models.RGB(1, 2, 3)); err == nil {
		t.Error("SetBackgroundColorAt accepted a cell outside the data cells")
	}
	if err := tbl.SetUpdateScreen(true); err != nil {
		t.Fatalf("SetUpdateScreen(true) failed: %v", err)
	}
	if id, _ := f.GetCellStyle("Sheet1", "B2"); id != 0 {
		t.Errorf("style written for rejected colors: %d", id)
	}
}

func TestStylesApplyImmediatelyWhenNotSuspended(t *testing.T) {
	wb, f := newBook(t, DefaultOptions())
	cols, _ := firstTable(t, wb).ColumnLabels()

	if err := cols.SetTextColorAt(0, 1, models.RGB(255, 0, 0)); err != nil {
		t.Fatalf("SetTextColorAt failed: %v", err)
	}
	st := cellStyle(t, f, "C1")
	if st.Font == nil || !strings.HasSuffix(strings.ToUpper(st.Font.Color), "FF0000") {
		t.Errorf("font = %+v, expected red", st.Font)
	}
}

func TestHideLabels(t *testing.T) {
	wb, f := newBook(t, DefaultOptions())
	tbl := firstTable(t, wb)
	cols, _ := tbl.ColumnLabels()
	rows, _ := tbl.RowLabels()

	if err := cols.HideLabelsWithDataAt(0, 1); err != nil {
		t.Fatalf("hide column failed: %v", err)
	}
	if err := rows.HideLabelsWithDataAt(1, 0); err != nil {
		t.Fatalf("hide row failed: %v", err)
	}

	if v, _ := f.GetColVisible("Sheet1", "C"); v {
		t.Error("column C still visible")
	}
	if v, _ := f.GetColVisible("Sheet1", "B"); !v {
		t.Error("column B hidden")
	}
	if v, _ := f.GetRowVisible("Sheet1", 3); v {
		t.Error("row 3 still visible")
	}
	if v, _ := f.GetRowVisible("Sheet1", 2); !v {
		t.Error("row 2 hidden")
	}
}

func TestHideOuterLabelSpan(t *testing.T) {
	tests := []struct {
		name  string
		merge bool
	}{
		{"blank cells", false},
		{"merged cells", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			defer f.Close()
			for cell, v := range map[string]any{
				"B1": "Group1", "D1": "Group2",
				"B2": "Count", "C2": "Percent", "D2": "Count",
				"A3": "Total", "B3": 1, "C3": 2, "D3": 3,
			} {
				f.SetCellValue("Sheet1", cell, v)
			}
			if tt.merge {
				if err := f.MergeCell("Sheet1", "B1", "C1"); err != nil {
					t.Fatalf("MergeCell failed: %v", err)
				}
			}
			opts := DefaultOptions()
			opts.HeaderRows = 2
			tbl := firstTable(t, New(f, "book.xlsx", opts))
			cols, _ := tbl.ColumnLabels()

			if err := cols.HideLabelsWithDataAt(0, 0); err != nil {
				t.Fatalf("hide failed: %v", err)
			}
			for col, want := range map[string]bool{"B": false, "C": false, "D": true} {
				if v, _ := f.GetColVisible("Sheet1", col); v != want {
					t.Errorf("column %s visible = %v, expected %v", col, v, want)
				}
			}
		})
	}
}

func TestWidths(t *testing.T) {
	wb, f := newBook(t, DefaultOptions())
	tbl := firstTable(t, wb)
	data, _ := tbl.DataCells()
	rows, _ := tbl.RowLabels()

	if err := data.ResizeColumn(1, 72); err != nil {
		t.Fatalf("ResizeColumn failed: %v", err)
	}
	if err := rows.SetRowLabelWidthAt(0, 0, 36); err != nil {
		t.Fatalf("SetRowLabelWidthAt failed: %v", err)
	}
	if err := data.(*Section).SetRowLabelWidthAt(0, 0, 36); !errors.Is(err, table.ErrUnsupported) {
		t.Errorf("SetRowLabelWidthAt on data cells = %v, expected %v", err, table.ErrUnsupported)
	}

	for col, pt := range map[string]float64{"C": 72, "A": 36} {
		w, err := f.GetColWidth("Sheet1", col)
		if err != nil {
			t.Fatalf("GetColWidth(%s) failed: %v", col, err)
		}
		if want := PointsToWidth(pt); w != want {
			t.Errorf("column %s width = %v, expected %v", col, w, want)
		}
	}

	if err := tbl.SetDataCellWidths(54); err != nil {
		t.Fatalf("SetDataCellWidths failed: %v", err)
	}
	if w, _ := f.GetColWidth("Sheet1", "B"); w != PointsToWidth(54) {
		t.Errorf("column B width = %v, expected %v", w, PointsToWidth(54))
	}
}

func TestDecimalsAndValues(t *testing.T) {
	wb, f := newBook(t, DefaultOptions())
	data, _ := firstTable(t, wb).DataCells()

	if err := data.SetDecimalsAt(0, 0, 2); err != nil {
		t.Fatalf("SetDecimalsAt failed: %v", err)
	}
	if got, _ := data.NumericFormatAt(0, 0); got != "0.00" {
		t.Errorf("NumericFormatAt = %q, expected %q", got, "0.00")
	}
	if got, _ := data.NumericFormatAt(1, 0); got != "General" {
		t.Errorf("NumericFormatAt = %q, expected General", got)
	}
	if got, _ := data.UnformattedValueAt(0, 0); got != "40" {
		t.Errorf("UnformattedValueAt = %q, expected 40", got)
	}

	if err := data.SetValueAt(1, 0, "12.5"); err != nil {
		t.Fatalf("SetValueAt failed: %v", err)
	}
	if typ, _ := f.GetCellType("Sheet1", "B3"); typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("numeric value stored as text")
	}
	if err := data.SetValueAt(1, 0, "n/a"); err != nil {
		t.Fatalf("SetValueAt failed: %v", err)
	}
	if got, _ := data.ValueAt(1, 0); got != "n/a" {
		t.Errorf("ValueAt = %q, expected n/a", got)
	}
}

func TestSignificanceMarkers(t *testing.T) {
	wb, _ := newBook(t, DefaultOptions())
	tbl := firstTable(t, wb)
	data, _ := tbl.DataCells()

	if tbl.SigMarkerMode() != models.SigSimple {
		t.Errorf("SigMarkerMode() = %v, expected simple", tbl.SigMarkerMode())
	}
	for _, c := range []struct {
		row, col int
		want     string
	}{
		{0, 0, ""},
		{0, 1, "A"},
		{1, 1, ""},
	} {
		if got, _ := data.SigMarkersAt(c.row, c.col); got != c.want {
			t.Errorf("SigMarkersAt(%d, %d) = %q, expected %q", c.row, c.col, got, c.want)
		}
	}

	opts := DefaultOptions()
	opts.Sig = models.SigNone
	wb, _ = newBook(t, opts)
	if got := firstTable(t, wb).SigMarkerMode(); got != models.SigNone {
		t.Errorf("SigMarkerMode() = %v, expected none", got)
	}
}

func TestParsePrintAreaReference(t *testing.T) {
	tests := []struct {
		ref   string
		sheet string
		areas []models.Region
	}{
		{"'My Sheet'!$A$1:$D$10", "My Sheet", []models.Region{{R1: 1, C1: 1, R2: 10, C2: 4}}},
		{"Data!$B$2:$C$3,Data!$E$5:$F$9", "Data", []models.Region{{R1: 2, C1: 2, R2: 3, C2: 3}, {R1: 5, C1: 5, R2: 9, C2: 6}}},
		{"Data!A1", "Data", nil},
	}

	for _, tt := range tests {
		sheet, areas := parsePrintAreaReference(tt.ref)
		if sheet != tt.sheet || !reflect.DeepEqual(areas, tt.areas) {
			t.Errorf("parsePrintAreaReference(%q) = %q, %v, expected %q, %v", tt.ref, sheet, areas, tt.sheet, tt.areas)
		}
	}
}

func TestOccupied(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		region models.Region
		filled int
	}{
		{"empty", [][]string{{}, {"", ""}}, models.Region{}, 0},
		{"single", [][]string{{}, {"", "x"}}, models.Region{R1: 2, C1: 2, R2: 2, C2: 2}, 1},
		{"ragged", [][]string{{"", "", "a"}, {"b"}, {}, {"", "c", "", "d"}}, models.Region{R1: 1, C1: 1, R2: 4, C2: 4}, 4},
	}

	for _, tt := range tests {
		region, filled := occupied(tt.rows)
		if region != tt.region || filled != tt.filled {
			t.Errorf("occupied(%s) = %v, %d, expected %v, %d", tt.name, region, filled, tt.region, tt.filled)
		}
	}
}

func TestPointsToWidth(t *testing.T) {
	tests := []struct {
		points   float64
		expected float64
	}{
		{0, 0},
		{3, 0},
		{72, 13},
		{36, 6.14},
	}

	for _, tt := range tests {
		if got := PointsToWidth(tt.points); got != tt.expected {
			t.Errorf("PointsToWidth(%v) = %v, expected %v", tt.points, got, tt.expected)
		}
	}
}

func TestSaveAndReopen(t *testing.T) {
	wb, _ := newBook(t, DefaultOptions())
	data, _ := firstTable(t, wb).DataCells()
	if err := data.SetTextStyleAt(1, 1, models.StyleItalic); err != nil {
		t.Fatalf("SetTextStyleAt failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	reopened, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()
	if reopened.Name() != "out.xlsx" {
		t.Errorf("Name() = %q", reopened.Name())
	}
	st := cellStyle(t, reopened.File(), "C3")
	if st.Font == nil || !st.Font.Italic {
		t.Errorf("font after reopen = %+v, expected italic", st.Font)
	}
}
