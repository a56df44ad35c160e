package xlsx_test

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/ukaji3/tablemod-go/pkg/tablemod"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/xlsx"
	"github.com/xuri/excelize/v2"
)

func TestModifyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range map[string]any{
		"B1": "Male (A)", "C1": "Female (B)", "D1": "Total",
		"A2": "Yes", "B2": "40 B", "C2": "60", "D2": 100,
		"A3": "No", "B3": "30", "C3": "70 A", "D3": 100,
	} {
		f.SetCellValue("Sheet1", cell, v)
	}
	wb := xlsx.New(f, "book.xlsx", xlsx.DefaultOptions())

	opts := tablemod.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	opts.Select = []string{"<<ALL>>"}
	opts.BackgroundColor = []int{255, 255, 0}
	opts.ApplyTo = tablemod.ApplyDataCells
	opts.Sig = models.SigSpec{"A": nil, "B": nil}
	m, err := tablemod.New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	summary, err := m.Run(wb, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Tables) != 1 || summary.Tables[0].Error != "" || summary.Tables[0].Region == nil {
		t.Fatalf("summary = %+v", summary)
	}

	for cell, want := range map[string]bool{"B2": true, "C3": true, "C2": false, "B3": false, "D2": false} {
		id, _ := f.GetCellStyle("Sheet1", cell)
		st, _ := f.GetStyle(id)
		got := st != nil && len(st.Fill.Color) == 1 && strings.HasSuffix(strings.ToUpper(st.Fill.Color[0]), "FFFF00")
		if got != want {
			t.Errorf("%s highlighted = %v, expected %v", cell, got, want)
		}
	}
}

func TestHideColumnsByLabel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range map[string]any{
		"B1": "Count", "C1": "Percent", "D1": "Count",
		"A2": "a", "B2": 1, "C2": 2, "D2": 3,
	} {
		f.SetCellValue("Sheet1", cell, v)
	}
	wb := xlsx.New(f, "book.xlsx", xlsx.DefaultOptions())

	opts := tablemod.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	opts.Select = []string{"Percent"}
	m, err := tablemod.New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := m.Run(wb, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for col, want := range map[string]bool{"B": true, "C": false, "D": true} {
		if v, _ := f.GetColVisible("Sheet1", col); v != want {
			t.Errorf("column %s visible = %v, expected %v", col, v, want)
		}
	}
}

func TestNoHeaderRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range map[string]any{
		"A1": "a", "B1": 1, "C1": 2,
		"A2": "b", "B2": 3, "C2": 4,
	} {
		f.SetCellValue("Sheet1", cell, v)
	}
	wbOpts := xlsx.DefaultOptions()
	wbOpts.HeaderRows = 0
	wb := xlsx.New(f, "book.xlsx", wbOpts)

	opts := tablemod.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	opts.Select = []string{"Count", "1"}
	opts.TextStyle = models.StyleBold
	m, err := tablemod.New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	summary, err := m.Run(wb, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Tables) != 1 || summary.Tables[0].Error != "" {
		t.Fatalf("summary = %+v", summary)
	}

	for cell, want := range map[string]bool{"C1": true, "C2": true, "B1": false, "B2": false} {
		id, _ := f.GetCellStyle("Sheet1", cell)
		st, _ := f.GetStyle(id)
		got := st != nil && st.Font != nil && st.Font.Bold
		if got != want {
			t.Errorf("%s bold = %v, expected %v", cell, got, want)
		}
	}
}
