package vtabrow

import (
	DS "github.com/vtabrow/vtabrow/internal/DS"
)

// LiveBuilder accumulates a DS.LiveDef. Obtain one with Table.
type LiveBuilder struct {
	def *DS.LiveDef
}

// Table starts a live-flavor definition: rows produced by indexing into
// host data on every access, the only flavor that can accept mutations
// (spec.md §3, §4.1).
func Table(name string) *LiveBuilder {
	return &LiveBuilder{def: &DS.LiveDef{Name: name, Filters: DS.NewFilterRegistry()}}
}

// Count sets the authoritative row count, consulted only while iterating a
// full scan of an open cursor — never from the planner path.
func (b *LiveBuilder) Count(fn func() int64) *LiveBuilder {
	b.def.RowCount = fn
	return b
}

// EstimateRows sets the cheap advisory row count consulted only during
// planning. If never set, the planner falls back to a pessimistic 100000.
func (b *LiveBuilder) EstimateRows(fn func() float64) *LiveBuilder {
	b.def.EstimateRows = fn
	return b
}

func (b *LiveBuilder) ColumnI64(name string, get func(row int) (int64, bool)) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.Int64Column(name, liveGetInt64(get)))
	return b
}

func (b *LiveBuilder) ColumnI64RW(name string, get func(row int) (int64, bool), set func(row int, v int64) bool) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.Int64ColumnRW(name, liveGetInt64(get), liveSetInt64(set)))
	return b
}

func (b *LiveBuilder) ColumnI32(name string, get func(row int) (int32, bool)) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.Int32Column(name, liveGetInt32(get)))
	return b
}

func (b *LiveBuilder) ColumnI32RW(name string, get func(row int) (int32, bool), set func(row int, v int32) bool) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.Int32ColumnRW(name, liveGetInt32(get), liveSetInt32(set)))
	return b
}

func (b *LiveBuilder) ColumnReal(name string, get func(row int) (float64, bool)) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.RealColumn(name, liveGetReal(get)))
	return b
}

func (b *LiveBuilder) ColumnRealRW(name string, get func(row int) (float64, bool), set func(row int, v float64) bool) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.RealColumnRW(name, liveGetReal(get), liveSetReal(set)))
	return b
}

func (b *LiveBuilder) ColumnText(name string, get func(row int) (string, bool)) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.TextColumn(name, liveGetText(get)))
	return b
}

func (b *LiveBuilder) ColumnTextRW(name string, get func(row int) (string, bool), set func(row int, v string) bool) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.TextColumnRW(name, liveGetText(get), liveSetText(set)))
	return b
}

func (b *LiveBuilder) ColumnBlob(name string, get func(row int) ([]byte, bool)) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.BlobColumn(name, liveGetBlob(get)))
	return b
}

func (b *LiveBuilder) ColumnBlobRW(name string, get func(row int) ([]byte, bool), set func(row int, v []byte) bool) *LiveBuilder {
	b.def.Columns = append(b.def.Columns, DS.BlobColumnRW(name, liveGetBlob(get), liveSetBlob(set)))
	return b
}

// OnModify registers the hook fired with the abstract operation string
// before any setter, inserter, or deleter runs (spec.md §4.1, §7).
func (b *LiveBuilder) OnModify(fn func(op string)) *LiveBuilder {
	b.def.BeforeModify = fn
	return b
}

// Deletable opts this table into DELETE support.
func (b *LiveBuilder) Deletable(fn func(rowid int64) bool) *LiveBuilder {
	b.def.SupportsDelete = true
	b.def.DeleteRow = fn
	return b
}

// Insertable opts this table into INSERT support.
func (b *LiveBuilder) Insertable(fn func(values []interface{}) (int64, bool)) *LiveBuilder {
	b.def.SupportsInsert = true
	b.def.InsertRow = fn
	return b
}

// FilterEq registers a specialized iterator for an integer/blob-keyed
// equality constraint. An out-of-range column is a silent no-op, per
// spec.md §4.1's "invalid references are silently dropped".
func (b *LiveBuilder) FilterEq(column int, factory func(key interface{}) (DS.RowIterator, error), cost, estRows float64) *LiveBuilder {
	b.def.Filters.Add(column, len(b.def.Columns), cost, estRows, factory)
	return b
}

// FilterEqText registers a specialized iterator for a text-keyed equality
// constraint, widening the engine value to a Go string before calling
// factory.
func (b *LiveBuilder) FilterEqText(column int, factory func(key string) (DS.RowIterator, error), cost, estRows float64) *LiveBuilder {
	b.def.Filters.Add(column, len(b.def.Columns), cost, estRows, func(key interface{}) (DS.RowIterator, error) {
		s, ok := DS.CoerceText(key)
		if !ok {
			return nil, nil
		}
		return factory(s)
	})
	return b
}

// Build finalizes the definition. The builder must not be reused
// afterward.
func (b *LiveBuilder) Build() *DS.LiveDef {
	return b.def
}

func liveGetInt64(get func(row int) (int64, bool)) func(interface{}) (int64, bool) {
	return func(h interface{}) (int64, bool) { return get(h.(int)) }
}

func liveSetInt64(set func(row int, v int64) bool) func(interface{}, int64) bool {
	return func(h interface{}, v int64) bool { return set(h.(int), v) }
}

func liveGetInt32(get func(row int) (int32, bool)) func(interface{}) (int32, bool) {
	return func(h interface{}) (int32, bool) { return get(h.(int)) }
}

func liveSetInt32(set func(row int, v int32) bool) func(interface{}, int32) bool {
	return func(h interface{}, v int32) bool { return set(h.(int), v) }
}

func liveGetReal(get func(row int) (float64, bool)) func(interface{}) (float64, bool) {
	return func(h interface{}) (float64, bool) { return get(h.(int)) }
}

func liveSetReal(set func(row int, v float64) bool) func(interface{}, float64) bool {
	return func(h interface{}, v float64) bool { return set(h.(int), v) }
}

func liveGetText(get func(row int) (string, bool)) func(interface{}) (string, bool) {
	return func(h interface{}) (string, bool) { return get(h.(int)) }
}

func liveSetText(set func(row int, v string) bool) func(interface{}, string) bool {
	return func(h interface{}, v string) bool { return set(h.(int), v) }
}

func liveGetBlob(get func(row int) ([]byte, bool)) func(interface{}) ([]byte, bool) {
	return func(h interface{}) ([]byte, bool) { return get(h.(int)) }
}

func liveSetBlob(set func(row int, v []byte) bool) func(interface{}, []byte) bool {
	return func(h interface{}, v []byte) bool { return set(h.(int), v) }
}
