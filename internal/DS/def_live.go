package DS

// LiveDef is the live flavor of spec.md §3: rows are produced by indexing
// into host data on every access, there is no cache, and it is the only
// flavor that can accept mutations.
type LiveDef struct {
	Name    string
	Columns []Column
	Filters *FilterRegistry

	// RowCount is the authoritative row count, consulted only while
	// iterating a full scan (never from the planner path — see
	// EstimateRows and spec.md §4.2).
	RowCount func() int64

	// EstimateRows is the cheap advisory used during planning. If nil, the
	// planner falls back to a deliberately pessimistic 100000 so the
	// engine prefers almost any alternative plan (spec.md §4.2 step 5).
	EstimateRows func() float64

	SupportsDelete bool
	DeleteRow      func(rowid int64) bool

	SupportsInsert bool
	// InsertRow receives the new column values positionally aligned with
	// Columns and returns the rowid assigned to the new row.
	InsertRow func(values []interface{}) (int64, bool)

	// BeforeModify is invoked with a human-readable operation string
	// ("DELETE FROM t", "UPDATE t", "INSERT INTO t") before any setter,
	// inserter, or deleter runs (spec.md §4.1). It never observes errors:
	// it fires before the user callback, only once the dispatch path has
	// committed to invoking it.
	BeforeModify func(op string)
}

// estimateRowsOrDefault returns d.EstimateRows() if set, otherwise the
// pessimistic live-flavor default from spec.md §4.2 step 5.
func (d *LiveDef) estimateRowsOrDefault() float64 {
	if d.EstimateRows != nil {
		return d.EstimateRows()
	}
	return 100000
}

// EstimateRowsForPlanner exposes the advisory row estimate to the planner
// without letting it reach RowCount.
func (d *LiveDef) EstimateRowsForPlanner() float64 {
	return d.estimateRowsOrDefault()
}
