package plugins

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

var (
	stripeColor = models.RGB(0, 0, 200)
	markColor   = models.RGB(255, 255, 0)
)

// Set3 qualitative scheme from ColorBrewer (http://colorbrewer.org/).
var qualitativeScheme = []models.Color{
	models.RGB(141, 211, 199), models.RGB(255, 255, 179), models.RGB(190, 186, 218),
	models.RGB(251, 128, 114), models.RGB(128, 177, 211), models.RGB(253, 180, 98),
	models.RGB(179, 222, 105), models.RGB(252, 205, 229), models.RGB(217, 217, 217),
	models.RGB(188, 128, 189), models.RGB(204, 235, 197), models.RGB(255, 237, 111),
}

// Pastel1 scheme from ColorBrewer.
var pastelScheme = []models.Color{
	models.RGB(251, 180, 174), models.RGB(179, 205, 227), models.RGB(204, 235, 197),
	models.RGB(222, 203, 228), models.RGB(254, 217, 166), models.RGB(255, 255, 204),
	models.RGB(229, 216, 189), models.RGB(253, 218, 236), models.RGB(242, 242, 242),
}

// StripeOddDataRows colors the background of odd rows of the data cells.
func StripeOddDataRows(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
	if section != models.DataCells || row%2 != 1 {
		return plugin.Continue, nil
	}
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, stripeColor)
}

// StripeOddRows colors the background of odd rows in any section.
func StripeOddRows(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
	if row%2 != 1 {
		return plugin.Continue, nil
	}
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, stripeColor)
}

// StripeOddRows2 is StripeOddRows with the color given by r, g and b.
func StripeOddRows2(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	if row%2 != 1 {
		return plugin.Continue, nil
	}
	c, err := colorParam(custom, 0, 0, 200)
	if err != nil {
		return plugin.Continue, err
	}
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, c)
}

// wash blends from toward to by the column's position across numCols.
func wash(from, to models.Color, col, numCols int) models.Color {
	t := 0.0
	if numCols > 1 {
		t = float64(col) / float64(numCols-1)
	}
	return models.FromColorful(from.Colorful().BlendRgb(to.Colorful(), t))
}

// WashColumnBackgrounds shades backgrounds from gray 180 to white across the columns.
func WashColumnBackgrounds(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
	c := wash(models.RGB(180, 180, 180), models.RGB(255, 255, 255), col, numCols)
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, c)
}

// WashColumns shades one channel from 150 to 255 across the columns.
// The color parameter picks the channel: red, green or blue (the default).
func WashColumns(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	name, err := custom.String("color", "blue")
	if err != nil {
		return plugin.Continue, err
	}
	to := colorful.Color{R: 150.0 / 255, G: 150.0 / 255, B: 150.0 / 255}
	switch strings.ToLower(name) {
	case "red":
		to.R = 1
	case "green":
		to.G = 1
	case "blue":
		to.B = 1
	default:
		return plugin.Continue, fmt.Errorf("invalid color parameter for function washColumns: %s", name)
	}
	c := wash(models.RGB(150, 150, 150), models.FromColorful(to), col, numCols)
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, c)
}

// Qualitative colors each column from a 12 color scheme; later columns repeat the last color.
func Qualitative(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, qualitativeScheme[min(col, len(qualitativeScheme)-1)])
}

// PastelQualitative colors each column from a 9 color pastel scheme.
func PastelQualitative(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, pastelScheme[min(col, len(pastelScheme)-1)])
}

func endsWithAtoZ(obj table.Section, row, col int) (bool, error) {
	v, err := obj.ValueAt(row, col)
	if err != nil || v == "" {
		return false, err
	}
	last := v[len(v)-1]
	return last >= 'A' && last <= 'Z', nil
}

// BoldIfEndsWithAtoZLetter bolds data cells whose text ends with an upper case letter.
func BoldIfEndsWithAtoZLetter(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
	if section != models.DataCells {
		return plugin.Continue, nil
	}
	ok, err := endsWithAtoZ(obj, row, col)
	if err != nil || !ok {
		return plugin.Continue, err
	}
	return plugin.Applied, obj.SetTextStyleAt(row, col, models.StyleBold)
}

// ColorIfEndsWithAtoZLetter colors data cells whose text ends with an upper
// case letter, yellow unless r, g and b say otherwise.
func ColorIfEndsWithAtoZLetter(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	c, err := colorParam(custom, 255, 255, 0)
	if err != nil {
		return plugin.Continue, err
	}
	if section != models.DataCells {
		return plugin.Continue, nil
	}
	ok, err := endsWithAtoZ(obj, row, col)
	if err != nil || !ok {
		return plugin.Continue, err
	}
	return plugin.Applied, obj.SetBackgroundColorAt(row, col, c)
}
