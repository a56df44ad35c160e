// Package plugins holds the built-in cell visitors, registered under the
// "styles" module.
package plugins

import (
	"fmt"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

// Module is the module name of every built-in visitor.
const Module = "styles"

var builtins = []struct {
	name string
	doc  string
	fn   any
}{
	{"stripeOddDataRows", "color the background of odd data rows", plugin.VisitFunc(StripeOddDataRows)},
	{"stripeOddRows", "color the background of odd rows of data and labels", plugin.VisitFunc(StripeOddRows)},
	{"stripeOddRows2", "stripe odd rows with color r, g, b (default 0, 0, 200)", plugin.ParamVisitFunc(StripeOddRows2)},
	{"washColumnBackgrounds", "shade cell backgrounds from dark to light gray across columns", plugin.VisitFunc(WashColumnBackgrounds)},
	{"washColumns", "shade cell backgrounds across columns; color='red', 'green' or 'blue'", plugin.ParamVisitFunc(WashColumns)},
	{"qualitative", "color columns with a 12 color qualitative scheme", plugin.VisitFunc(Qualitative)},
	{"pastelQualitative", "color columns with a 9 color pastel scheme", plugin.VisitFunc(PastelQualitative)},
	{"boldIfEndsWithAtoZLetter", "bold data cells ending with a letter A-Z", plugin.VisitFunc(BoldIfEndsWithAtoZLetter)},
	{"colorIfEndsWithAtoZLetter", "color data cells ending with a letter A-Z; r, g, b (default yellow)", plugin.ParamVisitFunc(ColorIfEndsWithAtoZLetter)},
	{"setDecimalPlaces", "set data cell decimals; decimals (default 2)", plugin.ParamVisitFunc(SetDecimalPlaces)},
	{"hideBlankRow", "hide rows whose data cells are all blank", plugin.VisitFunc(HideBlankRow)},
	{"hideRowBasedOnValues", "hide rows with no value above threshold; omitfirst, omitlast", plugin.ParamVisitFunc(HideRowBasedOnValues)},
	{"sortTable", "sort data rows by the visited column; direction='a' or 'd'", plugin.ParamVisitFunc(SortTable)},
	{"blankTableTriangle", "blank the upper or lower triangle of the data cells; triangle='upper' or 'lower'", plugin.ParamVisitFunc(BlankTableTriangle)},
	{"reletter", "replace significance letters; letters='xyz' or 'red,white,blue'", plugin.ParamVisitFunc(Reletter)},
}

// Register adds every built-in visitor to reg.
func Register(reg *plugin.Registry) error {
	for _, b := range builtins {
		if err := reg.Register(Module+"."+b.name, b.doc, b.fn); err != nil {
			return err
		}
	}
	return nil
}

// colorParam reads r, g and b with defaults and caches the packed color in
// custom["_color"] on the first call.
func colorParam(custom plugin.Params, r, g, b int) (models.Color, error) {
	if !custom.First() {
		if c, ok := custom["_color"].(models.Color); ok {
			return c, nil
		}
	}
	var err error
	channels := make([]int, 3)
	for i, ch := range []struct {
		key string
		def int
	}{{"r", r}, {"g", g}, {"b", b}} {
		if channels[i], err = custom.Int(ch.key, ch.def); err != nil {
			return 0, err
		}
	}
	c, err := models.ParseRGB(channels)
	if err != nil {
		return 0, err
	}
	custom["_color"] = c
	custom.SetFirst(false)
	return c, nil
}

func dataCells(obj table.Section) (table.DataCellArray, error) {
	d, ok := obj.(table.DataCellArray)
	if !ok {
		return nil, fmt.Errorf("%T is not a data cell array", obj)
	}
	return d, nil
}
