// Package VM is the module adapter of spec.md §2 item 7: it translates the
// engine's generic virtual-table protocol (here, the real
// github.com/mattn/go-sqlite3 sqlite3.Module/VTab/VTabCursor ABI) into
// calls against a specific DS.LiveDef, DS.CachedDef[Row], or
// DS.GeneratorDef[Row]. It is also the cursor state machine of spec.md
// §4.3: liveCursor, cachedCursor[Row], and generatorCursor[Row] each
// encode exactly one flavor's reachable states as a Go type instead of a
// bag of booleans, per the "cursor multi-mode state" design note in
// spec.md §9.
package VM

import (
	"strings"

	DS "github.com/vtabrow/vtabrow/internal/DS"
)

// opEQ is SQLITE_INDEX_CONSTRAINT_EQ. The planner in internal/QP only ever
// optimizes equality constraints (spec.md §4.2), so this is the only
// constraint operator this adapter inspects when building a QP.Request;
// every other operator is left unconsumed for the engine to apply itself.
const opEQ = 2

// columnDDL renders the column list of a CREATE TABLE(...) clause from a
// definition's columns, e.g. "value INTEGER, name TEXT". Column names come
// from host Go code (the builder), not from parsed SQL text, so they do
// not go through the identifier allow-list that pkg/vtabrow/register.go
// applies to table and module names — but are still rendered through a
// minimal escape so a column name containing a double-quote cannot break
// out of the declared schema.
func columnDDL(columns []DS.Column) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = quoteIdent(c.Name) + " " + c.Type.DDLType()
	}
	return strings.Join(parts, ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
