package tablemod

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/condition"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugins"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/report"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/selector"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/sigmap"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

// Modifier applies one validated set of options to tables.
type Modifier struct {
	opts     Options
	logger   *log.Logger
	hide     bool
	sel      *selector.Selector
	rowSel   *selector.Selector
	applyTo  string
	cond     *condition.Condition
	styles   []styleOp
	binder   *plugin.Binder
	ctx      *plugin.Context
	subtypes map[string]bool
}

// styleOp is one entry of the ordered style call list.
type styleOp struct {
	name  string
	visit func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error)
}

// New validates opts and prepares a Modifier. Every configuration error is
// reported here, before any table is touched.
func New(opts Options) (*Modifier, error) {
	m := &Modifier{opts: opts, logger: opts.Logger}
	if m.logger == nil {
		m.logger = log.Default()
	}
	dim, err := models.ParseDimension(string(opts.Dimension))
	if err != nil {
		return nil, configError("dimension", fmt.Errorf("%w: %v", ErrInvalidOption, err))
	}
	m.opts.Dimension = dim
	if m.opts.Process, err = ParseProcess(string(opts.Process)); err != nil {
		return nil, err
	}

	actionSet := opts.actionSet()
	if opts.Hide && actionSet {
		return nil, configError("hide", ErrHideCombined)
	}
	m.hide = opts.Hide || !actionSet

	widths := opts.Widths
	if len(widths) > 0 {
		if m.opts.Dimension == models.Rows {
			return nil, configError("widths", ErrRowsWithWidths)
		}
		if opts.Regexp {
			return nil, configError("widths", ErrRegexpWithWidths)
		}
		if len(widths) == 1 && len(opts.Select) > 1 {
			widths = broadcast(widths[0], len(opts.Select))
		}
		if len(widths) != len(opts.Select) {
			return nil, configError("widths", ErrWidthCount)
		}
		m.opts.Widths = widths
	}

	if (len(opts.RowLabels) > 0) != (len(opts.RowLabelWidths) > 0) {
		return nil, configError("row_labels", ErrRowLabelPairing)
	}
	if len(opts.RowLabels) > 0 {
		rw := opts.RowLabelWidths
		if len(rw) == 1 && len(opts.RowLabels) > 1 {
			rw = broadcast(rw[0], len(opts.RowLabels))
		}
		if len(rw) != len(opts.RowLabels) {
			return nil, configError("row_label_widths", ErrWidthCount)
		}
		for _, item := range opts.RowLabels {
			if _, ok := selector.ParseIndex(item); !ok {
				return nil, configError("row_labels", fmt.Errorf("%w: %q", ErrRowLabelText, item))
			}
		}
		sel, err := selector.New(opts.RowLabels, rw, false)
		if err != nil {
			return nil, configError("row_labels", err)
		}
		m.rowSel = sel
	} else if len(opts.Select) == 0 {
		return nil, configError("select", ErrSelectRequired)
	}

	if len(opts.Select) > 0 {
		if opts.Select[0] == selector.All && m.hide {
			return nil, configError("hide", ErrHideAll)
		}
		var sw []float64
		if len(m.opts.Widths) > 0 {
			sw = m.opts.Widths
		}
		sel, err := selector.New(opts.Select, sw, opts.Regexp)
		if err != nil {
			return nil, configError("select", err)
		}
		m.sel = sel
	}

	if err := m.buildApplyTo(opts.ApplyTo); err != nil {
		return nil, err
	}
	if err := m.buildStyles(); err != nil {
		return nil, err
	}

	m.subtypes = normalizeSubtypes(opts.Subtypes)
	m.ctx = plugin.NewContext()
	m.ctx.Dimension = m.opts.Dimension
	m.ctx.Level = opts.Level
	m.ctx.Logger = m.logger
	return m, nil
}

func broadcast(w float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = w
	}
	return out
}

func (m *Modifier) buildApplyTo(applyTo string) error {
	switch v := strings.ToLower(strings.TrimSpace(applyTo)); v {
	case "", ApplyBoth:
		m.applyTo = ApplyBoth
	case ApplyLabels, ApplyDataCells:
		m.applyTo = v
	default:
		cond, err := condition.Compile(applyTo)
		if err != nil {
			return configError("apply_to", err)
		}
		m.applyTo = ApplyDataCells
		m.cond = cond
	}
	return nil
}

// buildStyles assembles the style calls in their fixed order: text style,
// text color, background color, then plugins in declaration order.
func (m *Modifier) buildStyles() error {
	o := m.opts
	if _, err := models.ParseTextStyle(string(o.TextStyle)); err != nil {
		return configError("text_style", fmt.Errorf("%w: %v", ErrInvalidOption, err))
	}
	if o.TextStyle != models.StyleUnset {
		style := o.TextStyle
		m.styles = append(m.styles, styleOp{name: "text style", visit: func(obj table.Section, row, col, _, _ int, _ models.SectionTag, _ *plugin.Context) (plugin.Result, error) {
			return plugin.Applied, obj.SetTextStyleAt(row, col, style)
		}})
	}
	if o.TextColor != nil {
		color, err := models.ParseRGB(o.TextColor)
		if err != nil {
			return configError("text_color", fmt.Errorf("%w: %v", ErrInvalidColor, err))
		}
		m.styles = append(m.styles, styleOp{name: "text color", visit: func(obj table.Section, row, col, _, _ int, _ models.SectionTag, _ *plugin.Context) (plugin.Result, error) {
			return plugin.Applied, obj.SetTextColorAt(row, col, color)
		}})
	}
	if o.BackgroundColor != nil {
		color, err := models.ParseRGB(o.BackgroundColor)
		if err != nil {
			return configError("bg_color", fmt.Errorf("%w: %v", ErrInvalidColor, err))
		}
		m.styles = append(m.styles, styleOp{name: "background color", visit: func(obj table.Section, row, col, _, _ int, section models.SectionTag, _ *plugin.Context) (plugin.Result, error) {
			if err := obj.SetBackgroundColorAt(row, col, color); err != nil {
				return plugin.Continue, fmt.Errorf("%w at (%d, %d) in %s: %v", ErrBackground, row, col, section, err)
			}
			return plugin.Applied, nil
		}})
	}

	if len(o.CustomFunctions) > 0 {
		reg := o.Registry
		if reg == nil {
			reg = DefaultRegistry()
		}
		m.binder = plugin.NewBinder(reg)
		for _, text := range o.CustomFunctions {
			b, err := m.binder.Bind(text)
			if err != nil {
				return configError("custom_function", err)
			}
			m.styles = append(m.styles, styleOp{name: b.Name, visit: b.Visit})
		}
	}
	for i, fn := range o.Visitors {
		b := plugin.Func(fmt.Sprintf("visitor[%d]", i), fn)
		m.styles = append(m.styles, styleOp{name: b.Name, visit: b.Visit})
	}
	return nil
}

// DefaultRegistry returns a registry holding the built-in plugins.
func DefaultRegistry() *plugin.Registry {
	reg := plugin.NewRegistry()
	if err := plugins.Register(reg); err != nil {
		panic(err)
	}
	return reg
}

// Params returns the parameter registry bound under a custom function
// reference, or nil when the reference was not given.
func (m *Modifier) Params(ref string) plugin.Params {
	if m.binder == nil {
		return nil
	}
	return m.binder.Params(strings.TrimSpace(ref))
}

// Apply modifies one table. info receives the advisory rows of the table;
// it may be nil. A Stop from a visitor ends the selection loop and is
// reported through TableResult.Stopped, not as an error.
func (m *Modifier) Apply(t table.Table, info report.Sink) (res models.TableResult, err error) {
	if info == nil {
		info = report.Discard
	}
	res = models.TableResult{Name: t.Name(), Subtype: t.Subtype()}
	if r, ok := t.(interface{ Region() models.Region }); ok {
		region := r.Region()
		res.Region = &region
	}
	m.logger.Debug("modifying table", "table", t.Name(), "subtype", t.Subtype())

	lt := table.NewLazy(t)
	p := &pass{
		m:    m,
		t:    lt,
		info: info,
		ctx:  m.ctx.ForTable(lt, info),
		res:  &res,
	}

	if m.sel != nil && m.sel.MatchesAll() && len(m.opts.Widths) > 0 {
		if err := t.SetDataCellWidths(m.opts.Widths[0]); err != nil {
			return res, NewTableError(t.Name(), "widths", err)
		}
	}
	if err := p.load(); err != nil {
		return res, err
	}
	if m.opts.PrintLabels {
		p.printLabels()
	}

	if err := t.SetUpdateScreen(false); err != nil {
		return res, NewTableError(t.Name(), "update", err)
	}
	defer func() {
		if uerr := t.SetUpdateScreen(true); uerr != nil && err == nil {
			err = NewTableError(t.Name(), "update", uerr)
		}
	}()

	if m.sel != nil {
		if err := p.selectAndApply(); err != nil {
			return res, err
		}
	}
	if m.rowSel != nil {
		if err := p.rowLabelWidths(); err != nil {
			return res, err
		}
	}
	return res, nil
}

// pass is the state of one table's processing.
type pass struct {
	m    *Modifier
	t    *table.Lazy
	info report.Sink
	ctx  *plugin.Context
	res  *models.TableResult

	labels table.LabelArray
	data   table.DataCellArray
	sig    *sigmap.Map
}

func (p *pass) load() error {
	name := p.t.Name()
	var err error
	if p.m.opts.Dimension == models.Rows {
		p.labels, err = p.t.RowLabels()
	} else {
		p.labels, err = p.t.ColumnLabels()
	}
	if err != nil {
		return NewTableError(name, "labels", err)
	}
	if p.data, err = p.t.DataCells(); err != nil {
		return NewTableError(name, "datacells", err)
	}
	if len(p.m.opts.Sig) > 0 && p.t.SigMarkerMode() == models.SigSimple {
		cols, err := p.t.ColumnLabels()
		if err != nil {
			return NewTableError(name, "labels", err)
		}
		if p.sig, err = sigmap.Build(cols); err != nil {
			return NewTableError(name, "labels", err)
		}
		if p.sig != nil {
			p.m.logger.Debug("significance sub-tables", "table", name, "ranges", p.sig.Ranges)
		}
	}
	return nil
}

func (p *pass) printLabels() {
	which := "Column"
	if p.m.opts.Dimension == models.Rows {
		which = "Row"
	}
	rows, cols := p.labels.NumRows(), p.labels.NumColumns()
	p.info.AddRow(fmt.Sprintf("Table Labels: %s.  Dimensions: %d, %d", which, rows, cols))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, err := p.labels.ValueAt(i, j)
			if err != nil {
				v = "(" + err.Error() + ")"
			}
			p.info.AddRow(fmt.Sprintf("%d %d: %s", i, j, v))
		}
	}
}

// depth and extent return the label hierarchy depth and number of positions
// of the selected dimension.
func (p *pass) depth() int {
	if p.m.opts.Dimension == models.Rows {
		return p.labels.NumColumns()
	}
	return p.labels.NumRows()
}

// An empty hierarchy has no label positions; the data cells give the extent.
func (p *pass) extent() int {
	if p.depth() == 0 {
		if p.m.opts.Dimension == models.Rows {
			return p.data.NumRows()
		}
		return p.data.NumColumns()
	}
	if p.m.opts.Dimension == models.Rows {
		return p.labels.NumRows()
	}
	return p.labels.NumColumns()
}

func (p *pass) selectAndApply() error {
	m := p.m
	dim := m.opts.Dimension
	extent := p.extent()
	resolved := m.sel.Resolve(extent, p.info.AddRow)
	level := selector.LabelLevel(p.depth(), m.opts.Level)
	hasLabels := p.depth() > 0

	for pos := 0; pos < extent; pos++ {
		row, col := selector.Coord(dim, level, pos)
		var label func() (string, error)
		if hasLabels {
			label = func() (string, error) { return p.labels.ValueAt(row, col) }
		}
		match, ok, err := resolved.Match(pos, label)
		if err != nil {
			return NewTableError(p.t.Name(), "labels", err)
		}
		if !ok {
			continue
		}
		p.res.Matched++

		if m.hide {
			if !hasLabels {
				continue
			}
			if err := p.hideAt(pos, row, col); err != nil {
				return err
			}
			continue
		}
		if w, ok := match.Width(); ok && !resolved.All() {
			if err := p.data.ResizeColumn(pos, w); err != nil {
				return NewTableError(p.t.Name(), "widths", err)
			}
		}
		if len(m.styles) == 0 {
			continue
		}
		stop, err := p.styles(pos)
		if err != nil {
			return err
		}
		if stop {
			m.logger.Debug("processing stopped by custom function", "table", p.t.Name(), "position", pos)
			p.res.Stopped = true
			break
		}
	}
	return nil
}

// hideAt hides the label at the level coordinate, retrying once at the
// innermost level when the host refuses.
func (p *pass) hideAt(pos, row, col int) error {
	err := p.labels.HideLabelsWithDataAt(row, col)
	if err == nil {
		return nil
	}
	frow, fcol := selector.Coord(p.m.opts.Dimension, selector.Depth(p.depth())-1, pos)
	if frow == row && fcol == col {
		return NewTableError(p.t.Name(), "hide", err)
	}
	p.m.logger.Warn("hide failed, retrying at innermost level", "table", p.t.Name(), "row", row, "col", col, "err", err)
	p.info.AddRow(fmt.Sprintf("Could not hide label at (%d, %d); retrying at (%d, %d): %v", row, col, frow, fcol, err))
	if ferr := p.labels.HideLabelsWithDataAt(frow, fcol); ferr != nil {
		return NewTableError(p.t.Name(), "hide", errors.Join(err, ferr))
	}
	return nil
}

func (p *pass) rowLabelWidths() error {
	rl, err := p.t.RowLabels()
	if err != nil {
		return NewTableError(p.t.Name(), "rowlabels", err)
	}
	n := rl.NumColumns()
	resolved := p.m.rowSel.Resolve(n, p.info.AddRow)
	for pos := 0; pos < n; pos++ {
		match, ok, err := resolved.Match(pos, nil)
		if err != nil || !ok {
			continue
		}
		w, _ := match.Width()
		if err := rl.SetRowLabelWidthAt(0, pos, w); err != nil {
			return NewTableError(p.t.Name(), "rowlabels", err)
		}
	}
	return nil
}
