package DS

// GeneratorDef is the generator flavor of spec.md §3: rows stream through a
// one-shot producer so LIMIT can stop work early. Always read-only.
type GeneratorDef[Row any] struct {
	Name    string
	Columns []Column
	Filters *FilterRegistry

	// EstimateRows is the cheap advisory used during planning (default
	// fallback 1000 when nil, per spec.md §4.2 step 5).
	EstimateRows func() float64

	// NewGenerator returns a fresh Generator[Row] for a full-scan query. A
	// new one is built per query and torn down with the cursor.
	NewGenerator func() (Generator[Row], error)
}

func (d *GeneratorDef[Row]) estimateRowsOrDefault() float64 {
	if d.EstimateRows != nil {
		return d.EstimateRows()
	}
	return 1000
}

// EstimateRowsForPlanner exposes the advisory row estimate to the planner.
func (d *GeneratorDef[Row]) EstimateRowsForPlanner() float64 {
	return d.estimateRowsOrDefault()
}
