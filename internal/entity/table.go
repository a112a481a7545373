// Package entity provides the shared machinery behind every import
// kind: key derivation from identity fields, conflict-resolving merges,
// and the deduplicating table the resolvers accumulate into.
package entity

import (
	"sort"

	"github.com/rs/zerolog"
)

// Import is one normalized, deduplicated creation candidate. Key returns
// the table key (also the item's output directory name); an empty key
// marks a candidate that carried no identity fields. Display is a short
// operator-facing description used in pending-table dumps.
type Import interface {
	Key() string
	Display() string
}

// MergeFunc resolves a key collision between the entry already in the
// table and a newly observed candidate, returning the entry to keep.
type MergeFunc[T Import] func(existing, incoming T) T

// Table accumulates imports of one kind, at most one live entry per
// table key. A second observation of a key is merged in place, never
// silently overwritten.
type Table[T Import] struct {
	kind  string
	items map[string]T
	merge MergeFunc[T]
	log   zerolog.Logger
}

func NewTable[T Import](kind string, merge MergeFunc[T], log zerolog.Logger) *Table[T] {
	return &Table[T]{
		kind:  kind,
		items: make(map[string]T),
		merge: merge,
		log:   log.With().Str("table", kind).Logger(),
	}
}

// Add inserts or merges the candidate. It reports false when the
// candidate derived no key and was dropped.
func (t *Table[T]) Add(imp T) bool {
	key := imp.Key()
	if key == "" {
		t.log.Debug().Str("candidate", imp.Display()).Msg("no derivable key, dropped")
		return false
	}

	if existing, ok := t.items[key]; ok {
		t.items[key] = t.merge(existing, imp)
		return true
	}
	t.items[key] = imp
	return true
}

func (t *Table[T]) Get(key string) (T, bool) {
	imp, ok := t.items[key]
	return imp, ok
}

func (t *Table[T]) Has(key string) bool {
	_, ok := t.items[key]
	return ok
}

func (t *Table[T]) Len() int { return len(t.items) }

// Keys returns the table keys in sorted order. Consumers iterate by key;
// insertion order is not part of the contract.
func (t *Table[T]) Keys() []string {
	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns the entries ordered by table key.
func (t *Table[T]) Items() []T {
	items := make([]T, 0, len(t.items))
	for _, k := range t.Keys() {
		items = append(items, t.items[k])
	}
	return items
}
