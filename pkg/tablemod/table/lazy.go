package table

// Lazy wraps a Table and fetches each section on first use, caching the
// handle (or the error) for the rest of the table's processing.
type Lazy struct {
	Table

	rowLabels    lazySection[LabelArray]
	columnLabels lazySection[LabelArray]
	dataCells    lazySection[DataCellArray]
}

// NewLazy wraps t.
func NewLazy(t Table) *Lazy {
	l := &Lazy{Table: t}
	l.rowLabels.get = t.RowLabels
	l.columnLabels.get = t.ColumnLabels
	l.dataCells.get = t.DataCells
	return l
}

// RowLabels returns the cached row label array.
func (l *Lazy) RowLabels() (LabelArray, error) { return l.rowLabels.value() }

// ColumnLabels returns the cached column label array.
func (l *Lazy) ColumnLabels() (LabelArray, error) { return l.columnLabels.value() }

// DataCells returns the cached data cell array.
func (l *Lazy) DataCells() (DataCellArray, error) { return l.dataCells.value() }

type lazySection[T any] struct {
	get    func() (T, error)
	loaded bool
	item   T
	err    error
}

func (s *lazySection[T]) value() (T, error) {
	if !s.loaded {
		s.item, s.err = s.get()
		s.loaded = true
	}
	return s.item, s.err
}
