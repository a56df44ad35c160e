package selector

import "github.com/ukaji3/tablemod-go/pkg/tablemod/models"

// Depth floors a label hierarchy depth at 1 so that empty hierarchies
// resolve to a harmless coordinate instead of a modulo by zero.
func Depth(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// LabelLevel returns the physical level used for text comparisons: level -1
// is the innermost, more negative values move outward and non-negative values
// count in from the outermost level 0.
func LabelLevel(depth, level int) int {
	d := Depth(depth)
	innermost := d - 1
	return floorMod(innermost+level+1, d)
}

// Coord maps a position in the selected dimension and a label level to the
// (row, col) coordinate of that dimension's label array.
func Coord(dim models.Dimension, labelLevel, pos int) (row, col int) {
	if dim == models.Rows {
		return pos, labelLevel
	}
	return labelLevel, pos
}

// Sweep returns the label levels styled for level, from the requested level
// inward to the innermost. An empty hierarchy yields no levels.
func Sweep(depth, level int) []int {
	if depth <= 0 {
		return nil
	}
	levels := make([]int, 0, depth)
	for i := floorMod(depth+level, depth); i < depth; i++ {
		levels = append(levels, i)
	}
	return levels
}

func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
