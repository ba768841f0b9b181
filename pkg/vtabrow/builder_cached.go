package vtabrow

import (
	DS "github.com/vtabrow/vtabrow/internal/DS"
	IS "github.com/vtabrow/vtabrow/internal/IS"
)

// CachedBuilder accumulates a DS.CachedDef[Row]. Obtain one with
// CachedTable.
type CachedBuilder[Row any] struct {
	def *DS.CachedDef[Row]
}

// CachedTable starts a cached-flavor definition: rows enumerated once into
// a shared vector, with optional hash indexes over it. Always read-only
// (spec.md §3, §4.5).
func CachedTable[Row any](name string) *CachedBuilder[Row] {
	return &CachedBuilder[Row]{def: &DS.CachedDef[Row]{
		Name:    name,
		Filters: DS.NewFilterRegistry(),
		Cache:   IS.NewCache[Row](name),
	}}
}

// EstimateRows sets the cheap advisory row count consulted only during
// planning. If never set, the planner falls back to 1000.
func (b *CachedBuilder[Row]) EstimateRows(fn func() float64) *CachedBuilder[Row] {
	b.def.EstimateRows = fn
	return b
}

// CacheBuilder registers the bulk row producer invoked at most once for
// the lifetime of the shared cache (spec.md §4.5).
func (b *CachedBuilder[Row]) CacheBuilder(fn func() ([]Row, error)) *CachedBuilder[Row] {
	b.def.CacheBuilder = fn
	return b
}

func (b *CachedBuilder[Row]) ColumnI64(name string, get func(row Row) (int64, bool)) *CachedBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.Int64Column(name, rowGetInt64(get)))
	return b
}

func (b *CachedBuilder[Row]) ColumnI32(name string, get func(row Row) (int32, bool)) *CachedBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.Int32Column(name, rowGetInt32(get)))
	return b
}

func (b *CachedBuilder[Row]) ColumnReal(name string, get func(row Row) (float64, bool)) *CachedBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.RealColumn(name, rowGetReal(get)))
	return b
}

func (b *CachedBuilder[Row]) ColumnText(name string, get func(row Row) (string, bool)) *CachedBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.TextColumn(name, rowGetText(get)))
	return b
}

func (b *CachedBuilder[Row]) ColumnBlob(name string, get func(row Row) ([]byte, bool)) *CachedBuilder[Row] {
	b.def.Columns = append(b.def.Columns, DS.BlobColumn(name, rowGetBlob(get)))
	return b
}

// FilterEq registers a specialized iterator for an equality constraint. An
// out-of-range column is a silent no-op.
func (b *CachedBuilder[Row]) FilterEq(column int, factory func(key interface{}) (DS.RowIterator, error), cost, estRows float64) *CachedBuilder[Row] {
	b.def.Filters.Add(column, len(b.def.Columns), cost, estRows, factory)
	return b
}

// FilterEqText registers a text-keyed equality filter.
func (b *CachedBuilder[Row]) FilterEqText(column int, factory func(key string) (DS.RowIterator, error), cost, estRows float64) *CachedBuilder[Row] {
	b.def.Filters.Add(column, len(b.def.Columns), cost, estRows, func(key interface{}) (DS.RowIterator, error) {
		s, ok := DS.CoerceText(key)
		if !ok {
			return nil, nil
		}
		return factory(s)
	})
	return b
}

// IndexOn registers a hash index from an int64 key to row positions,
// built lazily on first cache access (spec.md §4.1, §4.5).
func (b *CachedBuilder[Row]) IndexOn(column int, keyExtractor func(Row) (int64, bool)) *CachedBuilder[Row] {
	if column < 0 || column >= len(b.def.Columns) {
		return b
	}
	b.def.Indexes = append(b.def.Indexes, DS.IndexEntry[Row]{Column: column, KeyExtractor: keyExtractor})
	return b
}

// Build finalizes the definition and registers its shared cache for
// name-based invalidation (spec.md §4.5's public invalidate_cache
// operation).
func (b *CachedBuilder[Row]) Build() *DS.CachedDef[Row] {
	IS.RegisterInvalidator(b.def.Name, b.def.Cache)
	return b.def
}

func rowGetInt64[Row any](get func(Row) (int64, bool)) func(interface{}) (int64, bool) {
	return func(h interface{}) (int64, bool) { return get(h.(Row)) }
}

func rowGetInt32[Row any](get func(Row) (int32, bool)) func(interface{}) (int32, bool) {
	return func(h interface{}) (int32, bool) { return get(h.(Row)) }
}

func rowGetReal[Row any](get func(Row) (float64, bool)) func(interface{}) (float64, bool) {
	return func(h interface{}) (float64, bool) { return get(h.(Row)) }
}

func rowGetText[Row any](get func(Row) (string, bool)) func(interface{}) (string, bool) {
	return func(h interface{}) (string, bool) { return get(h.(Row)) }
}

func rowGetBlob[Row any](get func(Row) ([]byte, bool)) func(interface{}) ([]byte, bool) {
	return func(h interface{}) ([]byte, bool) { return get(h.(Row)) }
}
