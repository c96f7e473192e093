package remix

// ValueTree is the nested customization data owned by a store: string keys
// mapping to JSON-compatible values. The alias keeps trees interchangeable
// with decoded JSON objects.
type ValueTree = map[string]any

// Merge deep-merges overlay into base and returns a new tree. Mapping
// values merge key by key, recursively. Sequence values are replaced
// wholesale by the overlay's sequence, never merged element-wise. Scalars
// replace. Neither input is mutated.
func Merge(base, overlay ValueTree) ValueTree {
	merged := make(ValueTree, len(base)+len(overlay))
	for key, value := range base {
		merged[key] = cloneValue(value)
	}

	for key, value := range overlay {
		existing, existingOk := merged[key].(map[string]any)
		incoming, incomingOk := value.(map[string]any)
		if existingOk && incomingOk {
			merged[key] = Merge(existing, incoming)
			continue
		}
		merged[key] = cloneValue(value)
	}

	return merged
}

// cloneTree deep-copies a tree. A nil tree stays nil.
func cloneTree(tree ValueTree) ValueTree {
	if tree == nil {
		return nil
	}
	out := make(ValueTree, len(tree))
	for key, value := range tree {
		out[key] = cloneValue(value)
	}
	return out
}

// cloneValue copies maps and sequences recursively so stored trees never
// alias caller-owned data. Scalars are returned as is.
func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneTree(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}

// lookup walks tree along path. It reports false when any segment is
// missing or crosses a non-mapping value.
func lookup(tree ValueTree, path []string) (any, bool) {
	var current any = tree
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
