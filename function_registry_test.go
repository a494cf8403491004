package hudcfg

import (
	"reflect"
	"testing"
)

func TestFunctionRegistryRegisterAndCall(t *testing.T) {
	registry := NewFunctionRegistry()

	if err := registry.Register("hasTalent", func(args ...any) (any, error) {
		return len(args) == 1, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Lookup is case-insensitive.
	result, err := registry.Call("HASTALENT", "x")
	if err != nil || result != true {
		t.Fatalf("call = %v, %v", result, err)
	}

	if err := registry.Register("hasTalent", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if err := registry.Register("", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatal("empty name accepted")
	}
	if err := registry.Register("nilFn", nil); err == nil {
		t.Fatal("nil function accepted")
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatal("unregistered call succeeded")
	}
}

func TestFunctionRegistryCloneIsIndependent(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("a", func(...any) (any, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}

	clone := registry.Clone()
	if err := clone.Register("b", func(...any) (any, error) { return 2, nil }); err != nil {
		t.Fatalf("register on clone: %v", err)
	}

	if !reflect.DeepEqual(registry.Names(), []string{"a"}) {
		t.Fatalf("origin names = %v", registry.Names())
	}
	if !reflect.DeepEqual(clone.Names(), []string{"a", "b"}) {
		t.Fatalf("clone names = %v", clone.Names())
	}
}

func TestMapProgramCache(t *testing.T) {
	cache := NewMapProgramCache()
	if _, ok := cache.Get("missing"); ok {
		t.Fatal("empty cache reported a hit")
	}
	cache.Set("expr", 42)
	if value, ok := cache.Get("expr"); !ok || value != 42 {
		t.Fatalf("get = %v, %t", value, ok)
	}
	cache.Set("expr", 43)
	if value, _ := cache.Get("expr"); value != 43 {
		t.Fatalf("overwrite = %v", value)
	}
}
