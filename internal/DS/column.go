package DS

// Column is a named cell with a declared type, a value-producing closure,
// and optionally a value-accepting closure. Get and Set operate against an
// opaque row handle: for the live flavor the handle is an int (row index);
// for the cached and generator flavors it is the caller's Row value boxed
// into interface{} by the generic builders in pkg/vtabrow. Keeping Column
// itself non-generic (rather than Column[Row]) is what lets LiveDef,
// CachedDef[Row] and GeneratorDef[Row] all share one Column slice type and
// one module adapter in internal/VM.
type Column struct {
	Name     string
	Type     ColumnType
	Writable bool

	// Get returns the engine-ready value for this column on the given row
	// handle, plus whether the value is non-NULL.
	Get func(handle interface{}) (interface{}, bool)

	// Set assigns a new value to this column on the given row handle. Set is
	// nil for read-only columns and is never consulted for one (spec
	// invariant: "set is never consulted for a non-writable column").
	Set func(handle interface{}, v interface{}) bool
}

// Int64Column builds a read-only Column over an int64-valued getter.
func Int64Column(name string, get func(handle interface{}) (int64, bool)) Column {
	return Column{
		Name: name,
		Type: Integer64,
		Get: func(h interface{}) (interface{}, bool) {
			v, ok := get(h)
			return v, ok
		},
	}
}

// Int64ColumnRW builds a writable Column over int64-valued getter/setter pair.
func Int64ColumnRW(name string, get func(handle interface{}) (int64, bool), set func(handle interface{}, v int64) bool) Column {
	c := Int64Column(name, get)
	c.Writable = true
	c.Set = func(h interface{}, v interface{}) bool {
		n, ok := CoerceInt64(v)
		if !ok {
			return false
		}
		return set(h, n)
	}
	return c
}

// Int32Column builds a read-only Column over an int32-valued getter.
func Int32Column(name string, get func(handle interface{}) (int32, bool)) Column {
	return Column{
		Name: name,
		Type: Integer32,
		Get: func(h interface{}) (interface{}, bool) {
			v, ok := get(h)
			return int64(v), ok
		},
	}
}

// Int32ColumnRW builds a writable Column over an int32-valued getter/setter pair.
func Int32ColumnRW(name string, get func(handle interface{}) (int32, bool), set func(handle interface{}, v int32) bool) Column {
	c := Int32Column(name, get)
	c.Writable = true
	c.Set = func(h interface{}, v interface{}) bool {
		n, ok := CoerceInt64(v)
		if !ok {
			return false
		}
		return set(h, int32(n))
	}
	return c
}

// RealColumn builds a read-only Column over a float64-valued getter.
func RealColumn(name string, get func(handle interface{}) (float64, bool)) Column {
	return Column{
		Name: name,
		Type: Real,
		Get: func(h interface{}) (interface{}, bool) {
			v, ok := get(h)
			return v, ok
		},
	}
}

// RealColumnRW builds a writable Column over a float64-valued getter/setter pair.
func RealColumnRW(name string, get func(handle interface{}) (float64, bool), set func(handle interface{}, v float64) bool) Column {
	c := RealColumn(name, get)
	c.Writable = true
	c.Set = func(h interface{}, v interface{}) bool {
		n, ok := CoerceFloat64(v)
		if !ok {
			return false
		}
		return set(h, n)
	}
	return c
}

// TextColumn builds a read-only Column over a string-valued getter.
func TextColumn(name string, get func(handle interface{}) (string, bool)) Column {
	return Column{
		Name: name,
		Type: Text,
		Get: func(h interface{}) (interface{}, bool) {
			v, ok := get(h)
			return v, ok
		},
	}
}

// TextColumnRW builds a writable Column over a string-valued getter/setter pair.
func TextColumnRW(name string, get func(handle interface{}) (string, bool), set func(handle interface{}, v string) bool) Column {
	c := TextColumn(name, get)
	c.Writable = true
	c.Set = func(h interface{}, v interface{}) bool {
		s, ok := CoerceText(v)
		if !ok {
			return false
		}
		return set(h, s)
	}
	return c
}

// BlobColumn builds a read-only Column over a []byte-valued getter.
func BlobColumn(name string, get func(handle interface{}) ([]byte, bool)) Column {
	return Column{
		Name: name,
		Type: Blob,
		Get: func(h interface{}) (interface{}, bool) {
			v, ok := get(h)
			return v, ok
		},
	}
}

// BlobColumnRW builds a writable Column over a []byte-valued getter/setter pair.
func BlobColumnRW(name string, get func(handle interface{}) ([]byte, bool), set func(handle interface{}, v []byte) bool) Column {
	c := BlobColumn(name, get)
	c.Writable = true
	c.Set = func(h interface{}, v interface{}) bool {
		b, ok := CoerceBlob(v)
		if !ok {
			return false
		}
		return set(h, b)
	}
	return c
}
