// Package merge provides the keyed merge primitives every entity store builds
// on. All functions are pure: inputs are never mutated, results are fresh maps.
//
// Merge semantics are additive and last-write-wins. An incoming entity
// overwrites the existing entry at the same key; keys absent from the incoming
// list are preserved. A fetch that returns fewer items than before therefore
// never drops state - deletion is the explicit Remove operation, issued only
// after a successful delete on the server.
package merge

// ByKey merges incoming entities into an existing mapping, keyed by keyFn.
// If the incoming list carries two entities with the same key, the later one
// wins.
func ByKey[T any](existing map[string]T, incoming []T, keyFn func(T) string) map[string]T {
	merged := make(map[string]T, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for _, item := range incoming {
		merged[keyFn(item)] = item
	}
	return merged
}

// One merges a single entity, the common shape after a create/update dispatch.
func One[T any](existing map[string]T, item T, keyFn func(T) string) map[string]T {
	return ByKey(existing, []T{item}, keyFn)
}

// Remove deletes one key from a mapping. Removing an absent key is a no-op
// that still returns a fresh map.
func Remove[T any](existing map[string]T, key string) map[string]T {
	merged := make(map[string]T, len(existing))
	for k, v := range existing {
		if k != key {
			merged[k] = v
		}
	}
	return merged
}

// Nested merges incoming entities into a two-level mapping under outerKey,
// creating the inner mapping on first write. Outer keys other than outerKey
// are carried over untouched; their inner maps are shared, never copied, which
// is safe because no path ever mutates an inner map in place.
func Nested[T any](existing map[string]map[string]T, outerKey string, incoming []T, keyFn func(T) string) map[string]map[string]T {
	merged := make(map[string]map[string]T, len(existing)+1)
	for k, v := range existing {
		merged[k] = v
	}
	merged[outerKey] = ByKey(existing[outerKey], incoming, keyFn)
	return merged
}

// RemoveNested deletes one inner key under outerKey. An empty inner mapping is
// kept rather than pruned; callers treat missing and empty alike.
func RemoveNested[T any](existing map[string]map[string]T, outerKey, innerKey string) map[string]map[string]T {
	inner, ok := existing[outerKey]
	if !ok {
		return existing
	}
	merged := make(map[string]map[string]T, len(existing))
	for k, v := range existing {
		merged[k] = v
	}
	merged[outerKey] = Remove(inner, innerKey)
	return merged
}
