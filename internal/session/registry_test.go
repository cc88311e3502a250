package session

import "testing"

func TestRegistryRegisterLookupUnregister(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Lookup("c1"); ok {
		t.Fatalf("expected empty registry at start")
	}

	reg.Register("c1", "alice")
	name, ok := reg.Lookup("c1")
	if !ok || name != "alice" {
		t.Fatalf("expected alice, got %q ok=%v", name, ok)
	}

	reg.Unregister("c1")
	if _, ok := reg.Lookup("c1"); ok {
		t.Fatalf("expected entry removed after unregister")
	}
}

func TestRegistryLookupAbsentIsNotAFault(t *testing.T) {
	reg := NewRegistry()
	// Disconnect races call lookup after logical departure.
	if name, ok := reg.Lookup("gone"); ok || name != "" {
		t.Fatalf("expected absent marker, got %q ok=%v", name, ok)
	}
	reg.Unregister("gone")
}

func TestRegistrySharedNamesAllowed(t *testing.T) {
	reg := NewRegistry()
	reg.Register("c1", "alice")
	reg.Register("c2", "alice")

	n1, _ := reg.Lookup("c1")
	n2, _ := reg.Lookup("c2")
	if n1 != "alice" || n2 != "alice" {
		t.Fatalf("expected both connections registered as alice, got %q and %q", n1, n2)
	}

	reg.Unregister("c1")
	if _, ok := reg.Lookup("c2"); !ok {
		t.Fatalf("unregistering c1 must not evict c2")
	}
}
