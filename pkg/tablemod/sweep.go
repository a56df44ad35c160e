package tablemod

import (
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/selector"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/sigmap"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/values"
)

// styles runs the style calls over the data cells and labels of position
// pos, as APPLYTO directs. It reports whether a visitor asked to stop.
func (p *pass) styles(pos int) (bool, error) {
	if p.m.applyTo != ApplyLabels {
		stop, err := p.dataSweep(pos)
		if err != nil || stop {
			return stop, err
		}
	}
	if p.m.applyTo == ApplyDataCells {
		return false, nil
	}
	return p.labelSweep(pos), nil
}

// dataSweep visits every data cell of position pos. A cell is visited when
// the condition holds and the significance filter accepts its markers. The
// first visitor error aborts the table.
func (p *pass) dataSweep(pos int) (bool, error) {
	data := p.data
	numRows, numCols := data.NumRows(), data.NumColumns()
	limit := numCols
	if p.m.opts.Dimension == models.Columns {
		limit = numRows
	}
	for i := 0; i < limit; i++ {
		row, col := pos, i
		if p.m.opts.Dimension == models.Columns {
			row, col = i, pos
		}
		if p.m.cond != nil {
			x, err := values.Cell(data, row, col)
			if err != nil {
				return false, NewTableError(p.t.Name(), "datacells", err)
			}
			if !p.m.cond.Eval(x, i, pos) {
				continue
			}
		}
		if p.sig != nil {
			markers, err := data.SigMarkersAt(row, col)
			if err != nil {
				return false, NewTableError(p.t.Name(), "datacells", err)
			}
			if !sigmap.Accept(p.sig, p.m.opts.Sig, markers, col) {
				continue
			}
		}
		for _, op := range p.m.styles {
			res, err := op.visit(data, row, col, numRows, numCols, models.DataCells, p.ctx)
			if err != nil {
				return false, NewTableError(p.t.Name(), "datacells", err)
			}
			if res == plugin.Stop {
				return true, nil
			}
		}
		p.res.Cells++
	}
	return false, nil
}

// labelSweep visits the labels of position pos from the selected level
// inward. Errors are logged and skip the remaining style calls of that
// label only.
func (p *pass) labelSweep(pos int) bool {
	labels := p.labels
	numRows, numCols := labels.NumRows(), labels.NumColumns()
	for _, lvl := range selector.Sweep(p.depth(), p.m.opts.Level) {
		row, col := selector.Coord(p.m.opts.Dimension, lvl, pos)
		for _, op := range p.m.styles {
			res, err := op.visit(labels, row, col, numRows, numCols, models.Labels, p.ctx)
			if err != nil {
				p.m.logger.Debug("label style failed", "table", p.t.Name(), "call", op.name, "row", row, "col", col, "err", err)
				break
			}
			if res == plugin.Stop {
				return true
			}
		}
	}
	return false
}
