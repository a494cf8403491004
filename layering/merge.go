// Package layering composes nested override trees, used for profile
// import/export: an imported profile layered over the current blob keeps
// explicit settings from the stronger layer while filling gaps from the
// weaker one.
package layering

// MergeLayers composes blob trees ordered from strongest to weakest,
// returning a new tree that keeps explicit settings from stronger layers
// while filling any missing data from weaker ones. Nested tables merge
// recursively; leaf values from the strongest layer win outright.
func MergeLayers(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return nil
	}
	merged := Clone(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeTrees(layers[i], merged)
	}
	return merged
}

func mergeTrees(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return Clone(weak)
	}
	result := Clone(weak)
	if result == nil {
		result = make(map[string]any, len(strong))
	}
	for key, value := range strong {
		strongTable, strongIsTable := value.(map[string]any)
		if !strongIsTable {
			result[key] = value
			continue
		}
		weakTable, weakIsTable := result[key].(map[string]any)
		if !weakIsTable {
			result[key] = Clone(strongTable)
			continue
		}
		result[key] = mergeTrees(strongTable, weakTable)
	}
	return result
}

// Clone deep-copies a blob tree. Leaf values are scalars (or slices kept
// by reference, which callers treat as immutable).
func Clone(tree map[string]any) map[string]any {
	if tree == nil {
		return nil
	}
	out := make(map[string]any, len(tree))
	for key, value := range tree {
		if nested, ok := value.(map[string]any); ok {
			out[key] = Clone(nested)
			continue
		}
		out[key] = value
	}
	return out
}
