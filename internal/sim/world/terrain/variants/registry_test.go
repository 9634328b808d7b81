package variants

import "testing"

func TestRegistryAssignsPositionalIDs(t *testing.T) {
	r := NewRegistry[string]()
	a, err := r.Register("A")
	if err != nil || a != 0 {
		t.Fatalf("A: id=%d err=%v", a, err)
	}
	m := r.RegisterDummy()
	b, err := r.Register("B")
	if err != nil || m != 1 || b != 2 {
		t.Fatalf("ids: marker=%d b=%d err=%v", m, b, err)
	}
	if v := r.MustLookup(2); v != "B" {
		t.Fatalf("lookup 2: %s", v)
	}
	if id, ok := r.ID("A"); !ok || id != 0 {
		t.Fatalf("reverse lookup: %d %v", id, ok)
	}
	if !r.IsDummy(m) || r.IsVariant(m) || !r.IsVariant(b) {
		t.Fatalf("dummy flags wrong")
	}
	if r.Len() != 3 {
		t.Fatalf("len=%d", r.Len())
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry[string]()
	if _, err := r.Register("A"); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := r.Register("A"); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if r.Len() != 1 {
		t.Fatalf("duplicate must not reserve a slot")
	}
}

func TestRegistryLookupFailures(t *testing.T) {
	r := NewRegistry[string]()
	m := r.RegisterDummy()
	if _, err := r.Lookup(m); err == nil {
		t.Fatalf("expected error dereferencing a marker")
	}
	if _, err := r.Lookup(7); err == nil {
		t.Fatalf("expected error for unregistered id")
	}
	if _, err := r.Lookup(-1); err == nil {
		t.Fatalf("expected error for negative id")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustLookup should panic on a marker")
		}
	}()
	r.MustLookup(m)
}
