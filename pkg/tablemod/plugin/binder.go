package plugin

import (
	"fmt"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

// Binder resolves references against a registry for one invocation. It owns
// the parameter registries of the references it binds, keyed by reference
// text, so state a visitor keeps in its parameters survives across every
// table the invocation visits and nothing leaks into the next invocation.
type Binder struct {
	registry *Registry
	params   map[string]Params
}

// NewBinder returns a binder over registry.
func NewBinder(registry *Registry) *Binder {
	return &Binder{registry: registry, params: make(map[string]Params)}
}

// Bind parses text, looks up the plugin and validates its signature.
func (b *Binder) Bind(text string) (*Bound, error) {
	ref, err := ParseRef(text)
	if err != nil {
		return nil, err
	}
	entry, ok := b.registry.Lookup(ref.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlugin, ref.Name)
	}
	call, takesParams, err := entry.visitor()
	if err != nil {
		return nil, err
	}
	params, ok := b.params[ref.Text]
	if !ok {
		params = ref.Params
		b.params[ref.Text] = params
	}
	return &Bound{Name: ref.Name, Text: ref.Text, call: call, takesParams: takesParams, params: params}, nil
}

// Params returns the parameter registry bound under text.
func (b *Binder) Params(text string) Params { return b.params[text] }

// Func wraps an already bound visitor. It takes no parameters.
func Func(name string, fn VisitFunc) *Bound {
	return &Bound{Name: name, Text: name, call: dropParams(fn), params: Params{FirstKey: true}}
}

// Bound is a resolved visitor ready to be called.
type Bound struct {
	Name string
	Text string

	call        ParamVisitFunc
	takesParams bool
	params      Params
}

// Params returns the parameter registry of the reference.
func (b *Bound) Params() Params { return b.params }

// Visit calls the visitor. A panic inside the visitor is returned as an error
// wrapping ErrPanic.
func (b *Bound) Visit(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *Context) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Continue, fmt.Errorf("%w: %s: %v", ErrPanic, b.Name, r)
		}
	}()
	var custom Params
	if b.takesParams {
		custom = b.params
	}
	return b.call(obj, row, col, numRows, numCols, section, ctx, custom)
}
