// Package sigmap partitions a table's data columns into significance sub-tables
// and filters cells by their significance marker letters.
package sigmap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

// markerPattern matches a trailing single or double letter token such as "(A)" or "(AB)".
var markerPattern = regexp.MustCompile(`\(([A-Za-z]{1,2})\)\s*$`)

// Range is an inclusive range of data column indices forming one sub-table.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether col falls within the range.
func (r Range) Contains(col int) bool { return col >= r.Start && col <= r.End }

func (r Range) String() string { return fmt.Sprintf("(%d,%d)", r.Start, r.End) }

// Map is the ordered list of sub-table ranges of one table. The ranges are
// contiguous and partition the data columns.
type Map struct {
	Ranges []Range
}

// Subtable returns the index of the sub-table containing col, or -1.
func (m *Map) Subtable(col int) int {
	if m == nil {
		return -1
	}
	for i, r := range m.Ranges {
		if r.Contains(col) {
			return i
		}
	}
	return -1
}

// Marker extracts the marker token of a column label, "" if it has none.
func Marker(label string) string {
	sm := markerPattern.FindStringSubmatch(label)
	if sm == nil {
		return ""
	}
	return sm[1]
}

// Ordinal converts a marker token to its column-letter ordinal (A=1, Z=26, AA=27),
// ignoring case. It returns 0 for anything that is not one or two letters.
func Ordinal(marker string) int {
	if marker == "" || len(marker) > 2 {
		return 0
	}
	n := 0
	for _, r := range marker {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return 0
		}
		n = n*26 + int(unicode.ToUpper(r)-'A'+1)
	}
	return n
}

// Build scans the marker row of the column labels and returns the sub-table map.
// The innermost label row is tried first, then the one above it. A nil map means
// no marker row was found and significance filtering is unsupported for the table.
func Build(labels table.LabelArray) (*Map, error) {
	rows := labels.NumRows()
	cols := labels.NumColumns()
	for _, row := range []int{rows - 1, rows - 2} {
		if row < 0 {
			continue
		}
		markers := make([]string, cols)
		found := false
		for col := 0; col < cols; col++ {
			v, err := labels.ValueAt(row, col)
			if err != nil {
				return nil, fmt.Errorf("read marker label at (%d, %d): %w", row, col, err)
			}
			markers[col] = Marker(v)
			if markers[col] != "" {
				found = true
			}
		}
		if found {
			return FromMarkers(markers), nil
		}
	}
	return nil, nil
}

// FromMarkers builds a map from the marker token of each column ("" for none).
//
// Walking left to right with a running maximum, a marker equal to the maximum
// closes the current sub-table at that column, and a marker below it closes the
// current sub-table at the previous column and opens the next one here. Columns
// without a marker extend the current sub-table.
func FromMarkers(markers []string) *Map {
	m := &Map{}
	start, max := 0, 0
	for col, marker := range markers {
		ord := Ordinal(marker)
		switch {
		case ord == 0:
		case max == 0 || ord > max:
			max = ord
		case ord == max:
			m.Ranges = append(m.Ranges, Range{Start: start, End: col})
			start, max = col+1, 0
		default:
			if col > start {
				m.Ranges = append(m.Ranges, Range{Start: start, End: col - 1})
			}
			start, max = col, ord
		}
	}
	if start < len(markers) {
		m.Ranges = append(m.Ranges, Range{Start: start, End: len(markers) - 1})
	}
	return m
}

// Accept decides whether a cell with the given marker letters at data column col
// qualifies under spec. Markers are examined in order: the first letter absent
// from spec rejects the cell, and the first letter whose sub-table restriction
// is empty or contains the cell's sub-table accepts it. A nil map accepts every cell.
func Accept(m *Map, spec models.SigSpec, markers string, col int) bool {
	if m == nil {
		return true
	}
	sub := m.Subtable(col)
	for _, r := range markers {
		if unicode.IsSpace(r) {
			continue
		}
		subs, ok := spec[string(r)]
		if !ok {
			return false
		}
		if len(subs) == 0 {
			return true
		}
		for _, s := range subs {
			if s == sub {
				return true
			}
		}
	}
	return false
}

// Levels selects which marker case a spec entry applies to.
type Levels string

const (
	// Both registers the upper and lower case form of each letter.
	Both Levels = "both"
	// Upper registers the upper case form only.
	Upper Levels = "upper"
	// Lower registers the lower case form only.
	Lower Levels = "lower"
)

// ParseSpec parses entries of the form "A" or "A:0,2" into a spec. levels
// decides whether upper case, lower case or both forms of the letter are registered.
func ParseSpec(entries []string, levels Levels) (models.SigSpec, error) {
	spec := make(models.SigSpec)
	for _, entry := range entries {
		letter, list, _ := strings.Cut(strings.TrimSpace(entry), ":")
		letter = strings.TrimSpace(letter)
		if len(letter) != 1 || !unicode.IsLetter(rune(letter[0])) || letter[0] > unicode.MaxASCII {
			return nil, fmt.Errorf("invalid significance marker %q: must be a single letter", entry)
		}
		var subs []int
		if strings.TrimSpace(list) != "" {
			for _, f := range strings.Split(list, ",") {
				n, err := strconv.Atoi(strings.TrimSpace(f))
				if err != nil || n < 0 {
					return nil, fmt.Errorf("invalid sub-table index %q in %q", f, entry)
				}
				subs = append(subs, n)
			}
		}
		var forms []string
		switch levels {
		case Upper:
			forms = []string{strings.ToUpper(letter)}
		case Lower:
			forms = []string{strings.ToLower(letter)}
		case Both, "":
			forms = []string{strings.ToUpper(letter), strings.ToLower(letter)}
		default:
			return nil, fmt.Errorf("invalid significance levels: %s (must be both, upper, or lower)", levels)
		}
		for _, f := range forms {
			prev, seen := spec[f]
			switch {
			case seen && len(prev) == 0:
			case subs == nil:
				spec[f] = []int{}
			default:
				spec[f] = append(prev, subs...)
			}
		}
	}
	return spec, nil
}
