package luaplugin

import (
	"fmt"
	"math"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
	lua "github.com/yuin/gopher-lua"
)

// function is a Lua visitor. It implements plugin.Callable.
type function struct {
	state *State
	name  string
	fn    *lua.LFunction
}

func (f *function) NumParams() int { return int(f.fn.Proto.NumParameters) }

func (f *function) Call(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context, custom plugin.Params) (plugin.Result, error) {
	s := f.state
	if s.closed {
		return plugin.Continue, ErrStateClosed
	}
	L := s.L
	args := []lua.LValue{
		newSection(L, obj),
		lua.LNumber(row),
		lua.LNumber(col),
		lua.LNumber(numRows),
		lua.LNumber(numCols),
		lua.LString(section),
		newContext(L, ctx),
	}
	var params *lua.LTable
	if custom != nil {
		params = paramsToTable(L, custom)
		args = append(args, params)
	}

	err := s.protect(func() error {
		return L.CallByParam(lua.P{Fn: f.fn, NRet: 1, Protect: true}, args...)
	})
	if params != nil {
		tableToParams(params, custom)
	}
	if err != nil {
		return plugin.Continue, fmt.Errorf("lua function %s: %w", f.name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	if ret == lua.LFalse {
		return plugin.Stop, nil
	}
	return plugin.Applied, nil
}

// paramsToTable copies custom into a fresh Lua table.
func paramsToTable(L *lua.LState, custom plugin.Params) *lua.LTable {
	t := L.NewTable()
	for k, v := range custom {
		t.RawSetString(k, toLua(L, v))
	}
	return t
}

// tableToParams copies the string keys of t back into custom, dropping keys
// the script removed.
func tableToParams(t *lua.LTable, custom plugin.Params) {
	seen := make(map[string]bool, len(custom))
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		seen[string(key)] = true
		custom[string(key)] = toGo(v, make(map[*lua.LTable]bool))
	})
	for k := range custom {
		if !seen[k] {
			delete(custom, k)
		}
	}
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case models.Color:
		return lua.LNumber(val)
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	}
	return lua.LString(fmt.Sprint(v))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		if n := v.Len(); n > 0 {
			out := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				out = append(out, toGo(v.RawGetInt(i), visited))
			}
			return out
		}
		out := make(map[string]any)
		v.ForEach(func(k, item lua.LValue) {
			out[k.String()] = toGo(item, visited)
		})
		if len(out) == 0 {
			return []any{}
		}
		return out
	case *lua.LUserData:
		return v.Value
	}
	return nil
}
