package DS

// RowCache is the interface a cached flavor's shared cache must satisfy.
// It is defined here, rather than imported from internal/IS, so that DS
// (the engine-agnostic data model) has no dependency on IS (the instance
// store) — IS depends on DS for IndexEntry, not the other way around.
// *IS.Cache[Row] satisfies this interface structurally.
type RowCache[Row any] interface {
	EnsureBuilt(builder func() ([]Row, error), indexes []IndexEntry[Row]) ([]Row, []map[int64][]int, error)
	Invalidate()
	Built() bool
}

// CachedDef is the cached flavor of spec.md §3: rows are enumerated once
// into a shared vector, with optional hash indexes built over it. Always
// read-only — cached and generator flavors reject all mutations.
type CachedDef[Row any] struct {
	Name    string
	Columns []Column
	Filters *FilterRegistry
	Indexes []IndexEntry[Row]

	// EstimateRows is the cheap advisory used during planning (default
	// fallback 1000 when nil, per spec.md §4.2 step 5).
	EstimateRows func() float64

	// CacheBuilder populates the backing row vector in bulk. It is called
	// at most once per Cache's lifetime, unless the cache is invalidated.
	CacheBuilder func() ([]Row, error)

	Cache RowCache[Row]
}

func (d *CachedDef[Row]) estimateRowsOrDefault() float64 {
	if d.EstimateRows != nil {
		return d.EstimateRows()
	}
	return 1000
}

// EstimateRowsForPlanner exposes the advisory row estimate to the planner.
func (d *CachedDef[Row]) EstimateRowsForPlanner() float64 {
	return d.estimateRowsOrDefault()
}
