package plugin

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

// Entry is one registered plugin.
type Entry struct {
	Name string
	Doc  string
	fn   any
}

// Registry maps module.function names to visitors.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds fn under name. fn is usually a VisitFunc, a ParamVisitFunc or a
// Callable; anything else is accepted here and rejected when a reference binds it,
// so a bad registration only fails the invocations that use it.
func (r *Registry) Register(name, doc string, fn any) error {
	if _, _, err := splitName(name); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: %s is nil", ErrSignature, name)
	}
	r.entries[name] = Entry{Name: name, Doc: doc, fn: fn}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name, doc string, fn any) {
	if err := r.Register(name, doc, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Entries returns all entries sorted by name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NumParams returns the declared parameter count of the entry, or -1 when it
// is not a function.
func (e Entry) NumParams() int {
	if c, ok := e.fn.(Callable); ok {
		return c.NumParams()
	}
	v := reflect.ValueOf(e.fn)
	if v.Kind() != reflect.Func {
		return -1
	}
	return v.Type().NumIn()
}

// visitor normalizes the entry into a single call shape. takesParams reports
// whether the registry of the reference must be passed.
func (e Entry) visitor() (call ParamVisitFunc, takesParams bool, err error) {
	switch fn := e.fn.(type) {
	case VisitFunc:
		return dropParams(fn), false, nil
	case func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *Context) (Result, error):
		return dropParams(fn), false, nil
	case ParamVisitFunc:
		return fn, true, nil
	case func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *Context, custom Params) (Result, error):
		return fn, true, nil
	case Callable:
		switch n := fn.NumParams(); n {
		case 7:
			return fn.Call, false, nil
		case 8:
			return fn.Call, true, nil
		default:
			return nil, false, fmt.Errorf("%w: %s declares %d parameters, expected 7 or 8", ErrSignature, e.Name, n)
		}
	}
	if n := e.NumParams(); n >= 0 {
		if n == 7 || n == 8 {
			return nil, false, fmt.Errorf("%w: %s has 7 or 8 parameters of the wrong types: %s", ErrSignature, e.Name, reflect.TypeOf(e.fn))
		}
		return nil, false, fmt.Errorf("%w: %s declares %d parameters, expected 7 or 8", ErrSignature, e.Name, n)
	}
	return nil, false, fmt.Errorf("%w: %s is a %T, not a function", ErrSignature, e.Name, e.fn)
}

func dropParams(fn VisitFunc) ParamVisitFunc {
	return func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *Context, _ Params) (Result, error) {
		return fn(obj, row, col, numRows, numCols, section, ctx)
	}
}

// splitName splits module.function.
func splitName(name string) (module, function string, err error) {
	parts := strings.Split(name, ".")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidRef, name)
	}
	return parts[0], parts[1], nil
}
