// Package orgunit derives canonical organizational-unit imports from the
// free-text department/institution strings found on author and
// contributor descriptors.
package orgunit

import (
	"github.com/uvalib/dspace-util-sub000/internal/entity"
)

// Import is one deduplicated org-unit creation candidate.
type Import struct {
	Title       string
	Institution string
	Department  string
	School      string
	// RawDepartment keeps the department string exactly as exported, for
	// the item description and operator dumps.
	RawDepartment string
	// KeyOverride aligns the table key with an externally supplied
	// identifier scheme; when present it wins over the derived key.
	KeyOverride string
	Description []string
}

// Key implements entity.Import. Identity fields in priority order: the
// override, then the (institution, department) pair after normalization.
func (o *Import) Key() string {
	return entity.KeyFor(
		[]string{o.KeyOverride},
		[]string{o.Institution, o.Department},
	)
}

// Display implements entity.Import.
func (o *Import) Display() string {
	if o.RawDepartment != "" && o.RawDepartment != o.Title {
		return o.Title + " (raw: " + o.RawDepartment + ")"
	}
	return o.Title
}

// Merge resolves two observations of the same org-unit key field by
// field (see entity.PreferLonger for the policy).
func Merge(existing, incoming *Import) *Import {
	existing.Title = entity.PreferLonger(existing.Title, incoming.Title)
	existing.Institution = entity.PreferLonger(existing.Institution, incoming.Institution)
	existing.Department = entity.PreferLonger(existing.Department, incoming.Department)
	existing.School = entity.PreferLonger(existing.School, incoming.School)
	existing.RawDepartment = entity.PreferLonger(existing.RawDepartment, incoming.RawDepartment)
	existing.KeyOverride = entity.PreferLonger(existing.KeyOverride, incoming.KeyOverride)
	existing.Description = entity.PreferLongerList(existing.Description, incoming.Description)
	return existing
}
