// Package condition compiles and evaluates the boolean APPLYTO expression that
// filters data cells. Expressions see exactly three names: x (the cell value),
// i (the index across the swept dimension) and ii (the selected row or column).
package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrInvalid is returned when an expression does not compile to a boolean
// over x, i and ii.
var ErrInvalid = errors.New("APPLYTO expression is invalid")

// Env is the evaluation environment of one cell.
type Env struct {
	// X is a float64 when the cell value is numeric, otherwise the cell text.
	X any `expr:"x"`
	// I is the index in the swept (opposite) dimension.
	I int `expr:"i"`
	// II is the index in the selected dimension.
	II int `expr:"ii"`
}

// Condition is a compiled expression.
type Condition struct {
	source  string
	program *vm.Program
}

// Compile compiles source. Unknown names, syntax errors and non-boolean
// results are reported here, before any cell is evaluated.
func Compile(source string) (*Condition, error) {
	src := strings.TrimSpace(source)
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalid)
	}
	program, err := expr.Compile(src,
		expr.Env(Env{}),
		expr.AsBool(),
		expr.DisableAllBuiltins(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, source, err)
	}
	return &Condition{source: source, program: program}, nil
}

// String returns the expression source.
func (c *Condition) String() string { return c.source }

// Eval evaluates the condition for one cell. Runtime failures such as
// comparing text with a number yield false.
func (c *Condition) Eval(x any, i, ii int) bool {
	out, err := expr.Run(c.program, Env{X: x, I: i, II: ii})
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
