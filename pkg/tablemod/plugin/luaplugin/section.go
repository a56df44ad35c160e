package luaplugin

import (
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
	lua "github.com/yuin/gopher-lua"
)

const (
	sectionTypeName = "tablemod.section"
	contextTypeName = "tablemod.context"
)

// Coordinates are 0-based in Lua as they are in Go, so scripts can pass the
// row and column they receive straight back.
var sectionMethods = map[string]lua.LGFunction{
	"rows":       sectionRows,
	"columns":    sectionColumns,
	"value":      sectionValue,
	"set_value":  sectionSetValue,
	"text_style": sectionTextStyle,
	"text_color": sectionTextColor,
	"background": sectionBackground,

	"unformatted": sectionUnformatted,
	"format":      sectionFormat,
	"decimals":    sectionDecimals,
	"markers":     sectionMarkers,
	"resize":      sectionResize,

	"hide":        sectionHide,
	"label_width": sectionLabelWidth,
}

var contextMethods = map[string]lua.LGFunction{
	"datacells":    contextDataCells,
	"rowlabels":    contextRowLabels,
	"columnlabels": contextColumnLabels,
	"dimension":    contextDimension,
	"level":        contextLevel,
	"info":         contextInfo,
	"get":          contextGet,
	"set":          contextSet,
}

func registerSectionType(L *lua.LState) {
	mt := L.NewTypeMetatable(sectionTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), sectionMethods))
}

func registerContextType(L *lua.LState) {
	mt := L.NewTypeMetatable(contextTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), contextMethods))
}

func newSection(L *lua.LState, s table.Section) lua.LValue {
	if s == nil {
		return lua.LNil
	}
	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(sectionTypeName))
	return ud
}

func newContext(L *lua.LState, ctx *plugin.Context) lua.LValue {
	if ctx == nil {
		return lua.LNil
	}
	ud := L.NewUserData()
	ud.Value = ctx
	L.SetMetatable(ud, L.GetTypeMetatable(contextTypeName))
	return ud
}

func checkSection(L *lua.LState) table.Section {
	ud := L.CheckUserData(1)
	s, ok := ud.Value.(table.Section)
	if !ok {
		L.ArgError(1, "section expected")
	}
	return s
}

func checkDataCells(L *lua.LState) table.DataCellArray {
	d, ok := checkSection(L).(table.DataCellArray)
	if !ok {
		L.RaiseError("operation only available on data cells")
	}
	return d
}

func checkLabels(L *lua.LState) table.LabelArray {
	l, ok := checkSection(L).(table.LabelArray)
	if !ok {
		L.RaiseError("operation only available on labels")
	}
	return l
}

func checkContext(L *lua.LState) *plugin.Context {
	ud := L.CheckUserData(1)
	c, ok := ud.Value.(*plugin.Context)
	if !ok {
		L.ArgError(1, "context expected")
	}
	return c
}

func raise(L *lua.LState, err error) int {
	L.RaiseError("%s", err.Error())
	return 0
}

func sectionRows(L *lua.LState) int {
	L.Push(lua.LNumber(checkSection(L).NumRows()))
	return 1
}

func sectionColumns(L *lua.LState) int {
	L.Push(lua.LNumber(checkSection(L).NumColumns()))
	return 1
}

func sectionValue(L *lua.LState) int {
	v, err := checkSection(L).ValueAt(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LString(v))
	return 1
}

func sectionSetValue(L *lua.LState) int {
	s := checkSection(L)
	if err := s.SetValueAt(L.CheckInt(2), L.CheckInt(3), L.ToStringMeta(L.Get(4)).String()); err != nil {
		return raise(L, err)
	}
	return 0
}

func sectionTextStyle(L *lua.LState) int {
	s := checkSection(L)
	style, err := models.ParseTextStyle(L.CheckString(4))
	if err != nil {
		return raise(L, err)
	}
	if err := s.SetTextStyleAt(L.CheckInt(2), L.CheckInt(3), style); err != nil {
		return raise(L, err)
	}
	return 0
}

func sectionTextColor(L *lua.LState) int {
	s := checkSection(L)
	if err := s.SetTextColorAt(L.CheckInt(2), L.CheckInt(3), models.Color(L.CheckInt(4))); err != nil {
		return raise(L, err)
	}
	return 0
}

func sectionBackground(L *lua.LState) int {
	s := checkSection(L)
	if err := s.SetBackgroundColorAt(L.CheckInt(2), L.CheckInt(3), models.Color(L.CheckInt(4))); err != nil {
		return raise(L, err)
	}
	return 0
}

func sectionUnformatted(L *lua.LState) int {
	v, err := checkDataCells(L).UnformattedValueAt(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LString(v))
	return 1
}

func sectionFormat(L *lua.LState) int {
	v, err := checkDataCells(L).NumericFormatAt(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LString(v))
	return 1
}

func sectionDecimals(L *lua.LState) int {
	d := checkDataCells(L)
	if err := d.SetDecimalsAt(L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)); err != nil {
		return raise(L, err)
	}
	return 0
}

func sectionMarkers(L *lua.LState) int {
	v, err := checkDataCells(L).SigMarkersAt(L.CheckInt(2), L.CheckInt(3))
	if err != nil {
		return raise(L, err)
	}
	L.Push(lua.LString(v))
	return 1
}

func sectionResize(L *lua.LState) int {
	d := checkDataCells(L)
	if err := d.ResizeColumn(L.CheckInt(2), float64(L.CheckNumber(3))); err != nil {
		return raise(L, err)
	}
	return 0
}

func sectionHide(L *lua.LState) int {
	l := checkLabels(L)
	if err := l.HideLabelsWithDataAt(L.CheckInt(2), L.CheckInt(3)); err != nil {
		return raise(L, err)
	}
	return 0
}

func sectionLabelWidth(L *lua.LState) int {
	l := checkLabels(L)
	if err := l.SetRowLabelWidthAt(L.CheckInt(2), L.CheckInt(3), float64(L.CheckNumber(4))); err != nil {
		return raise(L, err)
	}
	return 0
}

func contextDataCells(L *lua.LState) int {
	d, err := checkContext(L).DataCells()
	if err != nil {
		return raise(L, err)
	}
	L.Push(newSection(L, d))
	return 1
}

func contextRowLabels(L *lua.LState) int {
	l, err := checkContext(L).RowLabels()
	if err != nil {
		return raise(L, err)
	}
	L.Push(newSection(L, l))
	return 1
}

func contextColumnLabels(L *lua.LState) int {
	l, err := checkContext(L).ColumnLabels()
	if err != nil {
		return raise(L, err)
	}
	L.Push(newSection(L, l))
	return 1
}

func contextDimension(L *lua.LState) int {
	L.Push(lua.LString(checkContext(L).Dimension))
	return 1
}

func contextLevel(L *lua.LState) int {
	L.Push(lua.LNumber(checkContext(L).Level))
	return 1
}

func contextInfo(L *lua.LState) int {
	c := checkContext(L)
	if c.Info != nil {
		c.Info.AddRow(L.CheckString(2))
	}
	return 0
}

func contextGet(L *lua.LState) int {
	c := checkContext(L)
	L.Push(toLua(L, c.Scratch[L.CheckString(2)]))
	return 1
}

func contextSet(L *lua.LState) int {
	c := checkContext(L)
	if c.Scratch == nil {
		c.Scratch = make(map[string]any)
	}
	c.Scratch[L.CheckString(2)] = toGo(L.Get(3), make(map[*lua.LTable]bool))
	return 0
}
