package xlsx

import "math"

// PixelsPerPoint converts points to pixels at 96 DPI: 1 inch = 72 points = 96 pixels.
const PixelsPerPoint = 96.0 / 72.0

// maxDigitWidth is the pixel width of the widest digit of the default font
// (Calibri 11 at 96 DPI). Excel column widths count these digits plus 5 pixels
// of padding.
const maxDigitWidth = 7

// PointsToWidth converts a width in points to Excel column width units.
func PointsToWidth(pt float64) float64 {
	px := pt * PixelsPerPoint
	if px <= 5 {
		return 0
	}
	return math.Round((px-5)/maxDigitWidth*100) / 100
}

// WidthToPoints converts Excel column width units to points.
func WidthToPoints(w float64) float64 {
	if w <= 0 {
		return 0
	}
	return (w*maxDigitWidth + 5) / PixelsPerPoint
}
