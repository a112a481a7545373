package entity

import "github.com/uvalib/dspace-util-sub000/pkg/models"

// Current is the snapshot of table keys already present at the
// destination for one entity kind, keyed the same way ImportTable keys
// are derived. It is read-only within the pipeline: a pure membership
// test consulted before queueing a candidate for creation.
type Current map[string]models.RepoEntity

func (c Current) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Get returns the destination entity recorded under key.
func (c Current) Get(key string) (models.RepoEntity, bool) {
	e, ok := c[key]
	return e, ok
}
