// Package IS holds the instance-level state that a registered definition
// carries for its whole lifetime: the cached flavor's shared row/index
// cache, and a lightweight registry of those caches by table name used for
// cache invalidation.
package IS

import (
	"sync/atomic"

	DS "github.com/vtabrow/vtabrow/internal/DS"
	"golang.org/x/sync/singleflight"
)

// snapshot is the immutable payload behind a Cache once built. Replacing
// the pointer rather than mutating through it (spec.md §9's "replace the
// handle rather than mutating through it") means a cursor that has already
// loaded the pointer keeps reading a consistent view even if another
// connection invalidates and rebuilds concurrently.
type snapshot[Row any] struct {
	rows    []Row
	indexes []map[int64][]int // aligned with the IndexEntry slice passed to EnsureBuilt
}

// Cache is the SharedCache<Row> of spec.md §3/§4.5: one instance per
// CachedDef[Row], referenced by every cursor opened against that
// definition. Build is idempotent and race-free — concurrent callers
// coalesce on the singleflight group instead of each taking a mutex and
// re-checking a "built" flag by hand (spec.md §9's initialize-once design
// note).
type Cache[Row any] struct {
	snap  atomic.Pointer[snapshot[Row]]
	group singleflight.Group
	name  string
}

// NewCache returns an empty, not-yet-built cache for the definition name
// (used only as the singleflight key).
func NewCache[Row any](name string) *Cache[Row] {
	return &Cache[Row]{name: name}
}

// Built reports whether the cache currently holds a built snapshot.
func (c *Cache[Row]) Built() bool {
	return c.snap.Load() != nil
}

// EnsureBuilt runs builder and builds the indexes exactly once (coalescing
// concurrent callers) unless the cache is already built, then returns the current
// snapshot's rows and index maps.
//
// builder populates rows in bulk, mirroring the cache_builder callback of
// spec.md §4.1 ("takes a mutable reference to the row vector and populates
// it in bulk"). indexes describes the hash indexes to build over the
// resulting rows, mirroring spec.md §4.5 ("constructs all registered
// indexes by iterating the rows and invoking each key extractor").
func (c *Cache[Row]) EnsureBuilt(builder func() ([]Row, error), indexes []DS.IndexEntry[Row]) ([]Row, []map[int64][]int, error) {
	if s := c.snap.Load(); s != nil {
		return s.rows, s.indexes, nil
	}
	v, err, _ := c.group.Do(c.name, func() (interface{}, error) {
		if s := c.snap.Load(); s != nil {
			return s, nil
		}
		rows, err := builder()
		if err != nil {
			return nil, err
		}
		idx := make([]map[int64][]int, len(indexes))
		for i, entry := range indexes {
			m := make(map[int64][]int)
			for pos, row := range rows {
				key, ok := entry.KeyExtractor(row)
				if !ok {
					continue
				}
				m[key] = append(m[key], pos)
			}
			idx[i] = m
		}
		s := &snapshot[Row]{rows: rows, indexes: idx}
		c.snap.Store(s)
		return s, nil
	})
	if err != nil {
		return nil, nil, err
	}
	s := v.(*snapshot[Row])
	return s.rows, s.indexes, nil
}

// Invalidate clears the cache. The next EnsureBuilt call rebuilds from
// scratch. Cursors that already loaded the old snapshot keep reading it
// until they close — invalidation swaps the handle, it does not reach
// into any snapshot a cursor is mid-scan over.
func (c *Cache[Row]) Invalidate() {
	c.snap.Store(nil)
}
