package hudcfg

import (
	"reflect"
	"testing"
)

func TestDescriptorsFlattenAndSort(t *testing.T) {
	descriptors := Descriptors(map[string]any{
		"icons": map[string]any{
			"scale":    1.0,
			"showText": true,
		},
		"theme": "dark",
		"limit": nil,
	})

	want := []FieldDescriptor{
		{Path: "icons.scale", Type: "float64"},
		{Path: "icons.showText", Type: "bool"},
		{Path: "limit", Type: "nil"},
		{Path: "theme", Type: "string"},
	}
	if !reflect.DeepEqual(descriptors, want) {
		t.Fatalf("descriptors = %#v, want %#v", descriptors, want)
	}
}

func TestDescriptorsEmptyTrees(t *testing.T) {
	if got := Descriptors(nil); len(got) != 0 {
		t.Fatalf("nil tree = %#v", got)
	}
	if got := Descriptors(map[string]any{}); len(got) != 0 {
		t.Fatalf("empty tree = %#v", got)
	}

	got := Descriptors(map[string]any{"empty": map[string]any{}})
	want := []FieldDescriptor{{Path: "empty", Type: "map[string]any"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("empty table = %#v", got)
	}
}
