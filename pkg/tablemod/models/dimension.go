// Package models defines the value types shared by the table modification engine.
package models

import (
	"fmt"
	"strings"
)

// Dimension selects whether rows or columns are operated on.
type Dimension string

const (
	// Columns operates on table columns. It is the default.
	Columns Dimension = "columns"
	// Rows operates on table rows.
	Rows Dimension = "rows"
)

// ParseDimension parses a dimension name, ignoring case.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "columns", "column", "cols":
		return Columns, nil
	case "rows", "row":
		return Rows, nil
	}
	return "", fmt.Errorf("invalid dimension: %s (must be columns or rows)", s)
}

// SectionTag names the part of a table a plugin is visiting.
type SectionTag string

const (
	// Labels is a row or column label array.
	Labels SectionTag = "labels"
	// DataCells is the data cell grid.
	DataCells SectionTag = "datacells"
)

// SigMode is the significance marker mode of a table.
type SigMode string

const (
	// SigNone means the table carries no significance markers the engine understands.
	SigNone SigMode = "none"
	// SigSimple means data cells carry letter markers and column labels carry (A) style tokens.
	SigSimple SigMode = "simple"
	// SigAuto asks the host to detect the mode from the table contents.
	SigAuto SigMode = "auto"
)

// ParseSigMode parses a significance marker mode.
func ParseSigMode(s string) (SigMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SigAuto, nil
	case "simple":
		return SigSimple, nil
	case "none", "off":
		return SigNone, nil
	}
	return "", fmt.Errorf("invalid significance marker mode: %s (must be auto, simple, or none)", s)
}

// SigSpec maps a marker letter to the sub-table indices it is accepted in.
// An empty index list accepts the letter in any sub-table. Case matters:
// upper and lower case letters denote different significance levels.
type SigSpec map[string][]int
