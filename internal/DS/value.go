// Package DS holds the engine-agnostic data structures of the virtual-table
// binding: column types, column descriptors, row iterators, and the filter
// and index registries that table definitions carry.
package DS

import "fmt"

// ColumnType enumerates the declared SQL type of a Column.
type ColumnType int

const (
	Integer64 ColumnType = iota
	Integer32
	Real
	Text
	Blob
)

// DDLType returns the SQLite column type keyword used when the framework
// declares a virtual table's schema to the engine.
func (t ColumnType) DDLType() string {
	switch t {
	case Integer64, Integer32:
		return "INTEGER"
	case Real:
		return "REAL"
	case Text:
		return "TEXT"
	case Blob:
		return "BLOB"
	default:
		return "BLOB"
	}
}

func (t ColumnType) String() string {
	switch t {
	case Integer64:
		return "Integer64"
	case Integer32:
		return "Integer32"
	case Real:
		return "Real"
	case Text:
		return "Text"
	case Blob:
		return "Blob"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// ToEngine converts a typed Go value plus an "is null" flag into the
// interface{} shape the engine's result sinks (result_int64, result_text,
// ...) expect. A getter that reports ok=false produces an engine NULL
// regardless of the zero value it was otherwise holding.
func ToEngine(v interface{}, ok bool) interface{} {
	if !ok {
		return nil
	}
	return v
}

// FromEngine coerces an engine-supplied value (as delivered to Filter's argv
// or an Insert/Update's column list) into the native Go type a column setter
// or filter factory expects. The engine value API only ever hands back the
// four dynamic types (int64, float64, string, []byte) plus nil for NULL;
// numeric widening (e.g. Integer32 columns) happens in Column's typed
// accessors, not here.
func FromEngine(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	return v, true
}

// CoerceInt64 widens whatever numeric shape the engine handed back into an
// int64, for Integer32/Integer64 columns and for row identifiers.
func CoerceInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// CoerceFloat64 widens whatever numeric shape the engine handed back into a
// float64, for Real columns.
func CoerceFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// CoerceText widens whatever shape the engine handed back into a string, for
// Text columns and for the equality key passed to a text filter factory.
func CoerceText(v interface{}) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case []byte:
		return string(n), true
	default:
		return "", false
	}
}

// CoerceBlob widens whatever shape the engine handed back into a []byte, for
// Blob columns.
func CoerceBlob(v interface{}) ([]byte, bool) {
	switch n := v.(type) {
	case []byte:
		return n, true
	case string:
		return []byte(n), true
	default:
		return nil, false
	}
}
