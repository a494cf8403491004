package hudcfg

import (
	"fmt"
	"sort"
)

// FieldDescriptor describes one known settings path and its default's
// inferred type, letting the settings UI enumerate the tree without
// hardcoding paths.
type FieldDescriptor struct {
	Path string
	Type string
}

// Descriptors derives sorted field descriptors from a nested default tree.
func Descriptors(defaults map[string]any) []FieldDescriptor {
	descriptors := deriveFieldDescriptors(defaults, "")
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Path < descriptors[j].Path
	})
	return descriptors
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []FieldDescriptor{{Path: prefix, Type: "map[string]any"}}
		}
		var out []FieldDescriptor
		for key, nested := range typed {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			out = append(out, deriveFieldDescriptors(nested, path)...)
		}
		return out
	case nil:
		return []FieldDescriptor{{Path: prefix, Type: "nil"}}
	default:
		return []FieldDescriptor{{Path: prefix, Type: fmt.Sprintf("%T", typed)}}
	}
}
