package values

import (
	"testing"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"123", 123.0},
		{"123.45", 123.45},
		{"-100", -100.0},
		{" 7 ", 7.0},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Parse(tt.input); got != tt.expected {
			t.Errorf("Parse(%q) = %v (%T), expected %v (%T)", tt.input, got, got, tt.expected, tt.expected)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		input    string
		format   string
		expected float64
		ok       bool
	}{
		{"1,234.5", "#,##0.0", 1234.5, true},
		{"45%", "0%", 45, true},
		{"$12", "$#,##0", 12, true},
		{"(3.2)", "0.0", -3.2, true},
		{"1.234,5", "#.##0,0", 1234.5, true},
		{"4.5E-03", "0.0E+00", 0.0045, true},
		{"n/a", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		got, ok := Display(tt.input, tt.format)
		if ok != tt.ok || (ok && got != tt.expected) {
			t.Errorf("Display(%q, %q) = %v, %v, expected %v, %v", tt.input, tt.format, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestCellFallbacks(t *testing.T) {
	tbl := table.NewMemory("t", nil, nil, [][]string{{"1,234", "n/a", "12.5%"}})
	cells := tbl.Data()
	cells.SetRaw(0, 0, "1234")

	if v, err := Cell(cells, 0, 0); err != nil || v != 1234.0 {
		t.Errorf("Cell(0, 0) = %v, %v, expected 1234", v, err)
	}
	if v, err := Cell(cells, 0, 1); err != nil || v != "n/a" {
		t.Errorf("Cell(0, 1) = %v, %v, expected n/a", v, err)
	}

	cells.NoUnformatted = true
	if v, err := Cell(cells, 0, 0); err != nil || v != 1234.0 {
		t.Errorf("Cell(0, 0) without unformatted values = %v, %v, expected 1234", v, err)
	}
	if v, err := Cell(cells, 0, 2); err != nil || v != 12.5 {
		t.Errorf("Cell(0, 2) without unformatted values = %v, %v, expected 12.5", v, err)
	}
	if _, err := Cell(cells, 3, 0); err == nil {
		t.Error("Cell out of range succeeded, expected an error")
	}
	if f, ok := CellNumber(cells, 0, 1); ok {
		t.Errorf("CellNumber(0, 1) = %v, expected not numeric", f)
	}
}
