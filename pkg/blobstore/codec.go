package blobstore

import "strings"

// Expand turns a flat blob (dotted path -> value) into the nested table
// tree persisted formats expect. When a scalar and a table collide on the
// same key the table wins; the scalar entry is dropped rather than
// corrupting the tree.
func Expand(entries map[string]any) map[string]any {
	tree := make(map[string]any, len(entries))
	for path, value := range entries {
		segments := strings.Split(path, ".")
		node := tree
		for _, segment := range segments[:len(segments)-1] {
			next, ok := node[segment].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[segment] = next
			}
			node = next
		}
		leaf := segments[len(segments)-1]
		if _, isTable := node[leaf].(map[string]any); isTable {
			continue
		}
		node[leaf] = value
	}
	return tree
}

// Flatten turns a nested table tree back into a flat blob keyed by dotted
// path. Empty tables produce no entries.
func Flatten(tree map[string]any) map[string]any {
	entries := make(map[string]any)
	flattenInto(entries, "", tree)
	return entries
}

func flattenInto(entries map[string]any, prefix string, tree map[string]any) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(entries, path, nested)
			continue
		}
		entries[path] = value
	}
}
