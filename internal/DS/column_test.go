package DS

import "testing"

func TestInt64ColumnReadOnly(t *testing.T) {
	col := Int64Column("id", func(h interface{}) (int64, bool) { return int64(h.(int) * 10), true })
	if col.Writable {
		t.Fatalf("Int64Column should not be writable")
	}
	v, ok := col.Get(3)
	if !ok || v != int64(30) {
		t.Fatalf("Get(3) = (%v, %v), want (30, true)", v, ok)
	}
	if col.Set != nil {
		t.Fatalf("read-only column should have a nil Set")
	}
}

func TestInt64ColumnRWSetRejectsBadCoercion(t *testing.T) {
	var stored int64
	col := Int64ColumnRW("n",
		func(h interface{}) (int64, bool) { return stored, true },
		func(h interface{}, v int64) bool { stored = v; return true },
	)
	if !col.Set(0, int64(42)) {
		t.Fatalf("Set(42) should succeed")
	}
	if stored != 42 {
		t.Fatalf("stored = %v, want 42", stored)
	}
	if col.Set(0, "not a number") {
		t.Fatalf("Set with an uncoercible value should return false")
	}
}

func TestTextColumnRW(t *testing.T) {
	var stored string
	col := TextColumnRW("name",
		func(h interface{}) (string, bool) { return stored, true },
		func(h interface{}, v string) bool { stored = v; return true },
	)
	col.Set(0, "hello")
	v, _ := col.Get(0)
	if v != "hello" {
		t.Fatalf("Get after Set = %v, want hello", v)
	}
	// []byte widens to string per CoerceText.
	col.Set(0, []byte("bytes"))
	v, _ = col.Get(0)
	if v != "bytes" {
		t.Fatalf("Get after Set([]byte) = %v, want bytes", v)
	}
}

func TestBlobColumn(t *testing.T) {
	col := BlobColumn("data", func(h interface{}) ([]byte, bool) { return []byte("x"), true })
	v, ok := col.Get(nil)
	if !ok {
		t.Fatalf("Get should report ok=true")
	}
	if string(v.([]byte)) != "x" {
		t.Fatalf("Get = %v, want x", v)
	}
}
