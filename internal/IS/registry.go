package IS

import "sync"

// Invalidator is implemented by any cached definition's Cache wrapper so
// the bookkeeping registry below can expose a name-based InvalidateCache
// operation without being generic over Row itself.
type Invalidator interface {
	Invalidate()
}

var (
	mu           sync.RWMutex
	invalidators = map[string]Invalidator{}
)

// RegisterInvalidator records the cache behind a cached-flavor definition
// under its table name, so it can be invalidated by name later without the
// caller holding on to the *CachedDef[Row] itself.
func RegisterInvalidator(name string, inv Invalidator) {
	mu.Lock()
	invalidators[name] = inv
	mu.Unlock()
}

// InvalidateCache is the public invalidate_cache operation of spec.md §4.5:
// it clears the shared cache for the named definition, if one is
// registered. It reports whether a cache was found.
func InvalidateCache(name string) bool {
	mu.RLock()
	inv, ok := invalidators[name]
	mu.RUnlock()
	if !ok {
		return false
	}
	inv.Invalidate()
	return true
}

// Forget removes the bookkeeping entry for name, so a later InvalidateCache
// of that name no longer reaches the cache registered under it. The
// registration layer in pkg/vtabrow does not call it.
func Forget(name string) {
	mu.Lock()
	delete(invalidators, name)
	mu.Unlock()
}
