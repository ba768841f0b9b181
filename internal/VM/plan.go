package VM

import (
	QP "github.com/vtabrow/vtabrow/internal/QP"
	"github.com/mattn/go-sqlite3"
)

// planToIndexResult converts an engine-agnostic QP.Plan into the concrete
// sqlite3.IndexResult the bound engine expects, given how many constraints
// BestIndex originally received.
func planToIndexResult(plan QP.Plan, numConstraints int) *sqlite3.IndexResult {
	used := make([]bool, numConstraints)
	if plan.ConstraintIndex >= 0 && plan.ConstraintIndex < numConstraints {
		used[plan.ConstraintIndex] = plan.Omit
	}
	return &sqlite3.IndexResult{
		Used:          used,
		IdxNum:        plan.IdxNum,
		EstimatedCost: plan.EstimatedCost,
		EstimatedRows: plan.EstimatedRows,
	}
}

// writeResult copies a column value into the engine's per-call result sink.
// v is nil or ok is false for an engine NULL.
func writeResult(ctx *sqlite3.SQLiteContext, v interface{}, ok bool) {
	if !ok || v == nil {
		ctx.ResultNull()
		return
	}
	switch n := v.(type) {
	case int64:
		ctx.ResultInt64(n)
	case int:
		ctx.ResultInt(n)
	case float64:
		ctx.ResultDouble(n)
	case string:
		ctx.ResultText(n)
	case []byte:
		ctx.ResultBlob(n)
	case bool:
		if n {
			ctx.ResultInt(1)
		} else {
			ctx.ResultInt(0)
		}
	default:
		ctx.ResultNull()
	}
}
