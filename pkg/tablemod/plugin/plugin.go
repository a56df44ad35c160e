// Package plugin resolves plugin references such as "styles.washColumns(color='blue')"
// into bound cell visitors.
//
// A visitor is called once per qualifying label or data cell with the section
// being visited, the cell coordinate, the section extent, the section tag and
// the invocation context. Visitors that take custom parameters additionally
// receive the mutable parameter registry of their reference.
package plugin

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/report"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

// ErrInvalidRef indicates a malformed module.function reference.
var ErrInvalidRef = errors.New("function reference not valid")

// ErrInvalidParams indicates a malformed parameter clause.
var ErrInvalidParams = errors.New("invalid customfunction parameter expression")

// ErrUnknownPlugin indicates a reference to a name nothing registered.
var ErrUnknownPlugin = errors.New("unknown custom function")

// ErrSignature indicates a registered value that is not a visitor with 7 or 8 parameters.
var ErrSignature = errors.New("invalid custom function signature")

// ErrPanic wraps a panic raised inside a visitor.
var ErrPanic = errors.New("custom function panicked")

// Result is the outcome of one visitor call.
type Result int

const (
	// Applied means the visitor did its work; processing continues.
	Applied Result = iota
	// Continue means the visitor did nothing for this cell; processing continues.
	Continue
	// Stop ends processing of the current table.
	Stop
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	}
	return "unknown"
}

// Context is handed to every visitor call. It gives access to all three
// sections of the table being processed, not only the one being visited.
type Context struct {
	*table.Lazy

	Dimension models.Dimension
	Level     int
	// Info receives advisory rows for the current table.
	Info   report.Sink
	Logger *log.Logger
	// Scratch holds state that visitors share for the whole invocation.
	Scratch map[string]any
}

// NewContext returns a context with an empty scratch area, a discarding sink
// and the default logger.
func NewContext() *Context {
	return &Context{
		Dimension: models.Columns,
		Level:     -1,
		Info:      report.Discard,
		Logger:    log.Default(),
		Scratch:   make(map[string]any),
	}
}

// ForTable returns a copy of c bound to t. Scratch is shared with c.
func (c *Context) ForTable(t *table.Lazy, info report.Sink) *Context {
	cc := *c
	cc.Lazy = t
	if info != nil {
		cc.Info = info
	}
	return &cc
}

// VisitFunc is a visitor without custom parameters.
type VisitFunc func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *Context) (Result, error)

// ParamVisitFunc is a visitor that receives the parameter registry of its reference.
type ParamVisitFunc func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *Context, custom Params) (Result, error)

// Callable is a visitor whose parameter count is only known at run time,
// such as a script function.
type Callable interface {
	// NumParams returns the declared parameter count.
	NumParams() int
	// Call invokes the visitor. custom is nil for 7 parameter visitors.
	Call(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *Context, custom Params) (Result, error)
}
