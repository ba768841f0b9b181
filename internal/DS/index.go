package DS

// IndexBase is the smallest idxNum the planner ever assigns to an
// index-based plan. Filter ids stay in [1, 999] (see filter.go); index
// plans start at IndexBase + position so the module adapter can tell the
// two apart with a single comparison when it gets an idxNum back from the
// engine's BestIndex-chosen plan.
const IndexBase = 1000

// IndexEntry is one registered hash index for the cached flavor: a column
// and a function that extracts the int64 key used to bucket rows.
type IndexEntry[Row any] struct {
	Column       int
	KeyExtractor func(Row) (int64, bool)
}
