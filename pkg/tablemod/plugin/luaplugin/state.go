// Package luaplugin registers cell visitors written in Lua.
//
// Every global function defined by a .lua file in a plugin directory is
// registered as "<file stem>.<function>". A function declaring 7 parameters
// receives (section, row, col, numrows, numcols, sectiontag, ctx); one
// declaring 8 also receives its parameter table, whose changes persist between
// calls. Returning false stops processing of the current table.
//
// A State is not safe for concurrent use.
package luaplugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single visitor call.
const DefaultTimeout = 5 * time.Second

// ErrStateClosed is returned when a visitor runs after its state was closed.
var ErrStateClosed = errors.New("lua state is closed")

// State owns one Lua interpreter shared by every script it loads.
type State struct {
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// Option configures a State.
type Option func(*State)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a sandboxed interpreter with the base, table, string and
// math libraries plus the tablemod helpers.
func NewState(opts ...Option) *State {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	s.L = L

	registerSectionType(L)
	registerContextType(L)
	L.SetGlobal("rgb", L.NewFunction(luaRGB))
	mod := L.NewTable()
	L.SetField(mod, "labels", lua.LString(models.Labels))
	L.SetField(mod, "datacells", lua.LString(models.DataCells))
	L.SetGlobal("tablemod", mod)
	return s
}

// Close releases the interpreter.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// LoadFile runs path in its own environment and registers each function it
// defines as "<file stem>.<function>". It returns the registered names.
func (s *State) LoadFile(path string, reg *plugin.Registry) ([]string, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	module := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if module == "" || strings.ContainsAny(module, ".()=,") {
		return nil, fmt.Errorf("%w: plugin file name %s cannot be a module name", plugin.ErrInvalidRef, filepath.Base(path))
	}

	chunk, err := s.L.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	env := s.L.NewTable()
	meta := s.L.NewTable()
	s.L.SetField(meta, "__index", s.L.Get(lua.GlobalsIndex))
	s.L.SetMetatable(env, meta)
	s.L.SetFEnv(chunk, env)

	s.L.Push(chunk)
	if err := s.protect(func() error { return s.L.PCall(0, 0, nil) }); err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", path, err)
	}

	var names []string
	env.ForEach(func(k, v lua.LValue) {
		fn, ok := v.(*lua.LFunction)
		key, isString := k.(lua.LString)
		if !ok || !isString || fn.IsG || fn.Proto == nil {
			return
		}
		name := module + "." + string(key)
		if err := reg.Register(name, "lua function in "+filepath.Base(path), &function{state: s, name: name, fn: fn}); err != nil {
			return
		}
		names = append(names, name)
	})
	sort.Strings(names)
	return names, nil
}

// LoadDir loads every .lua file in dir, in name order.
func (s *State) LoadDir(dir string, reg *plugin.Registry) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".lua") {
			continue
		}
		loaded, err := s.LoadFile(filepath.Join(dir, e.Name()), reg)
		if err != nil {
			return names, err
		}
		names = append(names, loaded...)
	}
	return names, nil
}

func (s *State) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}
	return fn()
}

func luaRGB(L *lua.LState) int {
	c, err := models.ParseRGB([]int{L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)})
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(c))
	return 1
}
