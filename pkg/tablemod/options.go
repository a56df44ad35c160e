// Package tablemod selects rows or columns of labeled tables and applies
// hide, resize, style and plugin actions to them.
package tablemod

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
)

// Process selects which tables of a document are modified.
type Process string

const (
	// ProcessPreceding modifies the tables of the last group in the document.
	ProcessPreceding Process = "preceding"
	// ProcessAll modifies every table in the document.
	ProcessAll Process = "all"
)

// ApplyTo targets.
const (
	ApplyBoth      = "both"
	ApplyLabels    = "labels"
	ApplyDataCells = "datacells"
)

// Options configures one modification invocation.
type Options struct {
	// Subtypes selects tables by subtype. Empty or "*" selects every table.
	Subtypes []string
	// Process selects which part of the document is searched.
	Process Process

	// Select lists the rows or columns to act on: integer offsets (negative
	// counts from the end), label texts, or "<<ALL>>".
	Select []string
	// Regexp treats non-numeric Select entries as regular expressions.
	Regexp bool
	// Dimension is columns (default) or rows.
	Dimension models.Dimension
	// Level is the label level matched against text selectors; -1 is innermost.
	Level int
	// Hide hides the selection. It is implied when no other action is given.
	Hide bool
	// PrintLabels writes the label array of each table to the information table.
	PrintLabels bool

	// Widths sets data column widths in points, one per selector or one for all.
	Widths []float64
	// RowLabels selects row label columns by number for RowLabelWidths.
	RowLabels      []string
	RowLabelWidths []float64

	TextStyle models.TextStyle
	// TextColor and BackgroundColor are r, g, b triples; nil leaves the color alone.
	TextColor       []int
	BackgroundColor []int
	// ApplyTo is both, labels, datacells or a boolean expression over x, i
	// and ii that selects data cells.
	ApplyTo string
	// CustomFunctions lists plugin references, module.function or
	// module.function(key=value, ...).
	CustomFunctions []string
	// Visitors are already bound visitors run after CustomFunctions.
	Visitors []plugin.VisitFunc
	// Sig restricts styling to data cells carrying the given significance markers.
	Sig models.SigSpec

	// Registry resolves CustomFunctions. Nil uses the built-in plugins.
	Registry *plugin.Registry
	// Logger receives diagnostics. Nil uses the default logger.
	Logger *log.Logger
}

// DefaultOptions returns default modification options.
func DefaultOptions() Options {
	return Options{
		Process:   ProcessPreceding,
		Dimension: models.Columns,
		Level:     -1,
		ApplyTo:   ApplyBoth,
	}
}

// ParseProcess parses a process mode name, ignoring case.
func ParseProcess(s string) (Process, error) {
	switch p := Process(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProcessPreceding, nil
	case ProcessPreceding, ProcessAll:
		return p, nil
	}
	return "", configError("process", ErrInvalidOption)
}

// actionSet reports whether any action other than hide was requested.
func (o Options) actionSet() bool {
	return len(o.Widths) > 0 || len(o.RowLabelWidths) > 0 || o.TextStyle != models.StyleUnset ||
		o.TextColor != nil || o.BackgroundColor != nil || len(o.CustomFunctions) > 0 || len(o.Visitors) > 0
}
