// Package QP implements the best-index planner of spec.md §4.2. It is
// engine-agnostic: it consumes a Request built from whatever constraint
// shape the bound engine reports and produces a Plan, which internal/VM
// translates into the engine's own IndexResult type. Keeping this package
// free of any mattn/go-sqlite3 import is what makes it unit-testable
// without cgo, grounded on the teacher repo's own optimizer.go, which kept
// its predicate-pushdown classification logic free of VM/bytecode types
// for the same reason.
package QP

import DS "github.com/vtabrow/vtabrow/internal/DS"

// EqConstraint describes one usable equality constraint the engine is
// considering pushing into the scan — the only constraint shape this
// framework ever optimizes for (spec.md §4.2: "For each usable equality
// constraint").
type EqConstraint struct {
	// Index is this constraint's position in the engine's original
	// constraint slice, carried through to Plan.ConstraintIndex so
	// internal/VM can map the chosen plan back onto the right entry of
	// the engine's own ConstraintUsage/Used output slice.
	Index  int
	Column int
	Usable bool
}

// Request is the engine-agnostic input to Plan.
type Request struct {
	Constraints []EqConstraint
	// IndexedColumns reports which columns have a cached-flavor hash
	// index, in index-registration order (index position determines
	// IdxNum = DS.IndexBase + position, per spec.md §3's "reserved band").
	IndexedColumns []int // column index per registered IndexEntry, in order
	Filters        *DS.FilterRegistry
	// EstimateRows is the definition's cheap advisory row estimate, already
	// resolved by the DS layer's own per-flavor default (100000 for live,
	// 1000 for cached/generator, per spec.md §4.2 step 5) when the
	// definition supplies none. The planner trusts it as-is: a definition
	// whose EstimateRows legitimately reports zero rows is not the same
	// thing as one that never set the field at all, and only DS — which
	// still has the nil closure in hand — can tell those apart.
	EstimateRows float64
}

// Plan is the engine-agnostic output of the planner.
type Plan struct {
	// IdxNum is 0 for full scan, a filter id in [1,999] for a filter plan,
	// or DS.IndexBase+position for an index plan.
	IdxNum int
	// ConstraintIndex is the position, in the engine's original constraint
	// slice, of the constraint the chosen plan consumes; -1 for full scan.
	// Omit mirrors the engine's ConstraintUsage{ArgvIndex, Omit}: true
	// whenever a constraint was consumed, since this framework's filter and
	// index iterators are expected to be exact for equality (spec.md §4.2
	// step 4, "the framework re-checks nothing").
	ConstraintIndex int
	Omit            bool
	EstimatedCost   float64
	EstimatedRows   float64
}

// candidate is an internal scoring record for one access-path option.
type candidate struct {
	kind   int // 0 = index, 1 = filter
	idxNum int
	cost   float64
	rows   float64
}

const (
	kindIndex  = 0
	kindFilter = 1
)

// PlanBestIndex runs the algorithm of spec.md §4.2: start from full scan, consider
// an index or filter for each usable equality constraint, pick the
// minimum-cost option with indexes beating filters beating full scan on
// ties, and never consult a definition's authoritative row count (the
// planner only ever sees Request.EstimateRows, never a RowCount callback).
func PlanBestIndex(req Request) Plan {
	var best *candidate
	bestConstraintIndex := -1

	consider := func(c candidate, constraintIndex int) {
		if best == nil || betterThan(c, *best) {
			best = &c
			bestConstraintIndex = constraintIndex
		}
	}

	for _, cons := range req.Constraints {
		if !cons.Usable {
			continue
		}
		if pos := indexPosition(req.IndexedColumns, cons.Column); pos >= 0 {
			consider(candidate{
				kind:   kindIndex,
				idxNum: DS.IndexBase + pos,
				cost:   1.0,
				rows:   5,
			}, cons.Index)
			continue
		}
		if req.Filters != nil {
			if f, ok := req.Filters.ForColumn(cons.Column); ok {
				consider(candidate{
					kind:   kindFilter,
					idxNum: f.ID,
					cost:   f.EstimatedCost,
					rows:   f.EstimatedRows,
				}, cons.Index)
			}
		}
	}

	if best == nil {
		return Plan{
			IdxNum:          0,
			ConstraintIndex: -1,
			Omit:            false,
			EstimatedCost:   req.EstimateRows,
			EstimatedRows:   req.EstimateRows,
		}
	}

	return Plan{
		IdxNum:          best.idxNum,
		ConstraintIndex: bestConstraintIndex,
		Omit:            true,
		EstimatedCost:   best.cost,
		EstimatedRows:   best.rows,
	}
}

// betterThan reports whether a should replace b as the current best
// candidate: strictly lower cost wins; on a cost tie, index beats filter.
func betterThan(a, b candidate) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	return a.kind < b.kind // kindIndex (0) < kindFilter (1)
}

func indexPosition(indexed []int, column int) int {
	for i, c := range indexed {
		if c == column {
			return i
		}
	}
	return -1
}
