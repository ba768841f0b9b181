package DS

import "testing"

func TestCoerceInt64(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{int64(5), 5, true},
		{int(5), 5, true},
		{int32(5), 5, true},
		{float64(5.9), 5, true},
		{true, 1, true},
		{false, 0, true},
		{"5", 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := CoerceInt64(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("CoerceInt64(%#v) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCoerceFloat64(t *testing.T) {
	got, ok := CoerceFloat64(int64(7))
	if !ok || got != 7.0 {
		t.Errorf("CoerceFloat64(int64(7)) = (%v, %v), want (7, true)", got, ok)
	}
	if _, ok := CoerceFloat64("x"); ok {
		t.Errorf("CoerceFloat64(string) should fail")
	}
}

func TestCoerceText(t *testing.T) {
	got, ok := CoerceText([]byte("hi"))
	if !ok || got != "hi" {
		t.Errorf("CoerceText([]byte) = (%q, %v), want (hi, true)", got, ok)
	}
	if _, ok := CoerceText(5); ok {
		t.Errorf("CoerceText(int) should fail")
	}
}

func TestCoerceBlob(t *testing.T) {
	got, ok := CoerceBlob("hi")
	if !ok || string(got) != "hi" {
		t.Errorf("CoerceBlob(string) = (%q, %v), want (hi, true)", got, ok)
	}
}

func TestToEngineNullWhenNotOK(t *testing.T) {
	if v := ToEngine(int64(5), false); v != nil {
		t.Errorf("ToEngine(5, false) = %v, want nil", v)
	}
	if v := ToEngine(int64(5), true); v != int64(5) {
		t.Errorf("ToEngine(5, true) = %v, want 5", v)
	}
}

func TestColumnTypeDDL(t *testing.T) {
	cases := map[ColumnType]string{
		Integer64: "INTEGER",
		Integer32: "INTEGER",
		Real:      "REAL",
		Text:      "TEXT",
		Blob:      "BLOB",
	}
	for ct, want := range cases {
		if got := ct.DDLType(); got != want {
			t.Errorf("%v.DDLType() = %q, want %q", ct, got, want)
		}
	}
}
