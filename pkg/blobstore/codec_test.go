package blobstore

import (
	"reflect"
	"testing"
)

func TestExpandFlattenRoundTrip(t *testing.T) {
	flat := map[string]any{
		"items.12345.enabled": false,
		"items.12345.order":   2.5,
		"items.67890.bucket":  int64(0),
		"display.theme":       "compact",
	}

	tree := Expand(flat)

	items, ok := tree["items"].(map[string]any)
	if !ok {
		t.Fatalf("items = %#v, want table", tree["items"])
	}
	if _, ok := items["12345"].(map[string]any); !ok {
		t.Fatalf("items.12345 = %#v, want table", items["12345"])
	}

	back := Flatten(tree)
	if !reflect.DeepEqual(back, flat) {
		t.Fatalf("round trip = %#v, want %#v", back, flat)
	}
}

func TestExpandTableWinsOverScalar(t *testing.T) {
	tree := Expand(map[string]any{
		"a.b":   1,
		"a.b.c": 2,
	})

	a, ok := tree["a"].(map[string]any)
	if !ok {
		t.Fatalf("a = %#v, want table", tree["a"])
	}
	b, ok := a["b"].(map[string]any)
	if !ok {
		t.Fatalf("a.b = %#v, want table", a["b"])
	}
	if b["c"] != 2 {
		t.Fatalf("a.b.c = %v, want 2", b["c"])
	}
}

func TestFlattenEmptyTable(t *testing.T) {
	flat := Flatten(map[string]any{
		"empty": map[string]any{},
		"kept":  true,
	})
	want := map[string]any{"kept": true}
	if !reflect.DeepEqual(flat, want) {
		t.Fatalf("flat = %#v, want %#v", flat, want)
	}
}
