package DS

// RowIterator is the pull-style cursor contract returned by a filter
// factory (see FilterEntry.Factory in filter.go). It intentionally has no Eof method:
// spec.md §9 calls out a historical infinite-loop bug that came from
// trusting a separate eof() predicate that could degenerate to always
// returning false. Termination is derived exclusively from Next's return
// value — once Next returns false the iterator is exhausted and must not
// be advanced or read again.
type RowIterator interface {
	// Next advances to the next row and reports whether one is available.
	// It must be called once before the first Column/RowID access.
	Next() bool

	// Column returns the value of column idx for the current row, plus
	// whether it is non-NULL. Called only while Next has most recently
	// returned true.
	Column(idx int) (interface{}, bool)

	// RowID returns the stable row identifier for the current row.
	RowID() int64
}

// Generator is the one-shot producer contract for the generator flavor
// (spec.md §4.6). A fresh Generator is constructed per full-scan query and
// destroyed with the cursor, which is what lets LIMIT stop work early: the
// module adapter simply stops calling Next once it has enough rows.
//
// Generator carries the same "Next first, then read" discipline as
// RowIterator, expressed here over the caller's own Row type instead of
// column indices — Current is read with the definition's Column getters,
// which know how to pull fields out of a Row.
type Generator[Row any] interface {
	// Next advances the generator and reports whether a row is available.
	Next() bool

	// Current returns the most recently produced row. Valid only after a
	// call to Next returned true, and only until the next call to Next.
	Current() Row

	// RowID returns the stable row identifier of the current row.
	RowID() int64
}
