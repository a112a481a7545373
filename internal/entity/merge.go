package entity

// Conflict resolution when two observations share a table key. The idea,
// carried over from the legacy system:
//
// - An empty side never wins: fill blanks from the other observation.
// - Equal values stay put.
// - Otherwise the larger value (string length, list length) is assumed
//   to be the richer one and is kept; the existing value wins ties.
//
// This is a heuristic, not a verified business rule; callers must not
// rely on it being "correct" for any particular field.

// PreferLonger resolves a conflicting string field.
func PreferLonger(existing, incoming string) string {
	if existing == "" {
		return incoming
	}
	if incoming == "" || existing == incoming {
		return existing
	}
	if len(existing) >= len(incoming) {
		return existing
	}
	return incoming
}

// PreferLongerList resolves a conflicting list field by the same length
// proxy. Use UnionByKey instead for fields whose policy is to merge.
func PreferLongerList(existing, incoming []string) []string {
	if len(existing) == 0 {
		return incoming
	}
	if len(incoming) == 0 || len(existing) >= len(incoming) {
		return existing
	}
	return incoming
}

// UnionByKey merges two lists, deduplicating by key, keeping primary's
// order first and appending secondary entries not yet seen.
func UnionByKey[T any](primary, secondary []T, key func(T) string) []T {
	seen := make(map[string]bool, len(primary)+len(secondary))
	out := make([]T, 0, len(primary)+len(secondary))
	for _, lists := range [][]T{primary, secondary} {
		for _, v := range lists {
			k := key(v)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}
