package models

import "fmt"

// Region represents the cell coordinate bounds of a table on a sheet.
type Region struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Rows returns the number of sheet rows covered by the region.
func (r Region) Rows() int { return r.R2 - r.R1 + 1 }

// Cols returns the number of sheet columns covered by the region.
func (r Region) Cols() int { return r.C2 - r.C1 + 1 }

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool { return r.R2 < r.R1 || r.C2 < r.C1 }

func (r Region) String() string {
	return fmt.Sprintf("R%dC%d:R%dC%d", r.R1, r.C1, r.R2, r.C2)
}
