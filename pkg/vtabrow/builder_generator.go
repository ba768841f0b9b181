package vtabrow

import (
	DS "github.com/vtabrow/vtabrow/internal/DS"
)

// GeneratorBuilder accumulates a DS.GeneratorDef[Row]. Obtain one with
// GeneratorTable.
type GeneratorBuilder[Row any] struct {
	def *DS.GeneratorDef[Row]
}

// GeneratorTable starts a generator-flavor definition: rows stream through
// a one-shot producer per query, enabling early termination under LIMIT
// (spec.md §3, §4.6). Always read-only.
func GeneratorTable[Row any](name string) *GeneratorBuilder[Row] {
	return &GeneratorBuilder[Row]{def: &DS.GeneratorDef[Row]{Name: name, Filters: DS.NewFilterRegistry()}}
}

// EstimateRows sets the cheap advisory row count consulted only during
// planning. If never set, the planner falls back to 1000.
func (b *GeneratorBuilder[Row]) EstimateRows(fn func() float64) *GeneratorBuilder[Row] {
	b.def.EstimateRows = fn
	return b
}

// Generator registers the factory invoked once per full-scan query to
// produce a fresh DS.Generator[Row].
func (b *GeneratorBuilder[Row]) Generator(fn func() (DS.Generator[Row], error)) *GeneratorBuilder[Row] {
	b.def.NewGenerator = fn
	return b
}

func (b *GeneratorBuilder[Row]) ColumnI64(name string, get func(row Row) (int64, bool)) *GeneratorBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.Int64Column(name, rowGetInt64(get)))
	return b
}

func (b *GeneratorBuilder[Row]) ColumnI32(name string, get func(row Row) (int32, bool)) *GeneratorBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.Int32Column(name, rowGetInt32(get)))
	return b
}

func (b *GeneratorBuilder[Row]) ColumnReal(name string, get func(row Row) (float64, bool)) *GeneratorBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.RealColumn(name, rowGetReal(get)))
	return b
}

func (b *GeneratorBuilder[Row]) ColumnText(name string, get func(row Row) (string, bool)) *GeneratorBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.TextColumn(name, rowGetText(get)))
	return b
}

func (b *GeneratorBuilder[Row]) ColumnBlob(name string, get func(row Row) ([]byte, bool)) *GeneratorBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.BlobColumn(name, rowGetBlob(get)))
	return b
}

// FilterEq registers a specialized iterator for an equality constraint. An
// out-of-range column is a silent no-op.
func (b *GeneratorBuilder[Row]) FilterEq(column int, factory func(key interface{}) (DS.RowIterator, error), cost, estRows float64) *GeneratorBuilder[Row] {
	b.def.Filters.Add(column, len(b.def.Columns), cost, estRows, factory)
	return b
}

// FilterEqText registers a text-keyed equality filter.
func (b *GeneratorBuilder[Row]) FilterEqText(column int, factory func(key string) (DS.RowIterator, error), cost, estRows float64) *GeneratorBuilder[Row] {
	b.def.Filters.Add(column, len(b.def.Columns), cost, estRows, func(key interface{}) (DS.RowIterator, error) {
		s, ok := DS.CoerceText(key)
		if !ok {
			return nil, nil
		}
		return factory(s)
	})
	return b
}

// Build finalizes the definition.
func (b *GeneratorBuilder[Row]) Build() *DS.GeneratorDef[Row] {
	return b.def
}
