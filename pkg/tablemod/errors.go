package tablemod

import (
	"errors"
	"fmt"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/condition"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/selector"
)

var (
	// ErrHideCombined indicates hide was requested together with a styling or resize action.
	ErrHideCombined = errors.New("HIDE cannot be combined with other actions")
	// ErrHideAll indicates hide was requested for every row or column.
	ErrHideAll = errors.New("HIDE cannot be applied with <<ALL>>")
	// ErrWidthCount indicates a width list whose length does not match its selector list.
	ErrWidthCount = errors.New("the number of sizes specified is different from the number of items specified")
	// ErrRowLabelPairing indicates row labels without row label widths or the reverse.
	ErrRowLabelPairing = errors.New("ROWLABELS and ROWLABELWIDTHS must be specified together")
	// ErrSelectRequired indicates an empty selector list with no row label widths to set.
	ErrSelectRequired = errors.New("SELECT is required unless ROWLABELS is specified")
	// ErrRowsWithWidths indicates widths requested for the rows dimension.
	ErrRowsWithWidths = errors.New("the rows dimension cannot be combined with resizing")
	// ErrRegexpWithWidths indicates widths requested in regular expression mode.
	ErrRegexpWithWidths = errors.New("regular expression mode is not available with widths")
	// ErrInvalidRegexp indicates a selector pattern that does not compile.
	ErrInvalidRegexp = selector.ErrInvalidRegexp
	// ErrInvalidCondition indicates an APPLYTO expression that does not compile.
	ErrInvalidCondition = condition.ErrInvalid
	// ErrInvalidColor indicates a color that is not three values between 0 and 255.
	ErrInvalidColor = errors.New("invalid color")
	// ErrRowLabelText indicates a row label selector that is not a number.
	ErrRowLabelText = errors.New("row label selectors must be numbers")
	// ErrInvalidOption indicates an unknown enumerated option value.
	ErrInvalidOption = errors.New("invalid option value")
	// ErrBackground wraps a failure to set a background color.
	ErrBackground = errors.New("set background color exception")
)

// ConfigError is a configuration error detected before any table is touched.
type ConfigError struct {
	Option string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Option, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configError(option string, err error) *ConfigError {
	return &ConfigError{Option: option, Err: err}
}

// TableError is a failure that aborts processing of one table.
type TableError struct {
	Table string
	Stage string // "labels", "datacells", "hide", "widths", "rowlabels", "update"
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %q (%s): %v", e.Table, e.Stage, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// NewTableError creates a new TableError.
func NewTableError(tableName, stage string, err error) *TableError {
	return &TableError{
		Table: tableName,
		Stage: stage,
		Err:   err,
	}
}
