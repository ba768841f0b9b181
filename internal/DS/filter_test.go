package DS

import "testing"

func TestFilterRegistryAssignsSequentialIDs(t *testing.T) {
	r := NewFilterRegistry()
	r.Add(0, 3, 1.0, 5, nil)
	r.Add(1, 3, 1.0, 5, nil)

	e0, ok := r.ForColumn(0)
	if !ok || e0.ID != 1 {
		t.Fatalf("column 0 filter id = %v (ok=%v), want 1", e0.ID, ok)
	}
	e1, ok := r.ForColumn(1)
	if !ok || e1.ID != 2 {
		t.Fatalf("column 1 filter id = %v (ok=%v), want 2", e1.ID, ok)
	}
}

func TestFilterRegistrySilentlyDropsInvalidColumn(t *testing.T) {
	r := NewFilterRegistry()
	r.Add(5, 3, 1.0, 5, nil) // column 5 out of range for 3 columns
	if len(r.Entries()) != 0 {
		t.Fatalf("entries = %v, want none registered for an invalid column", r.Entries())
	}
}

func TestFilterRegistryAtMostOnePerColumn(t *testing.T) {
	r := NewFilterRegistry()
	r.Add(0, 3, 1.0, 5, nil)
	r.Add(0, 3, 99.0, 99, nil) // duplicate column, should be dropped

	e, ok := r.ForColumn(0)
	if !ok || e.EstimatedCost != 1.0 {
		t.Fatalf("second Add for column 0 should not overwrite the first; got cost %v", e.EstimatedCost)
	}
	if len(r.Entries()) != 1 {
		t.Fatalf("entries = %d, want 1", len(r.Entries()))
	}
}

func TestFilterRegistryByID(t *testing.T) {
	r := NewFilterRegistry()
	r.Add(0, 2, 1.0, 5, nil)
	r.Add(1, 2, 1.0, 5, nil)

	e, ok := r.ByID(2)
	if !ok || e.Column != 1 {
		t.Fatalf("ByID(2) = %+v (ok=%v), want column 1", e, ok)
	}
	if _, ok := r.ByID(99); ok {
		t.Fatalf("ByID(99) should not be found")
	}
}
