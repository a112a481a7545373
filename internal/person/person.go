// Package person derives deduplicated person imports from author and
// contributor descriptors.
package person

import (
	"strings"

	"github.com/uvalib/dspace-util-sub000/internal/entity"
	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
)

// Import is one deduplicated person creation candidate. Orgs is the
// ordered, key-deduplicated list of org-units this person has been seen
// in across all descriptors that resolved to the same key.
type Import struct {
	ComputingID string
	FirstName   string
	LastName    string
	Department  string
	Institution string
	ORCID       string
	Orgs        []*orgunit.Import
}

// Key implements entity.Import. The computing id wins when present;
// otherwise the (last name, first name) pair identifies the person.
//
// A real person whose descriptors sometimes carry a computing id and
// sometimes do not therefore derives two distinct keys. That is
// preserved legacy behavior, not an invariant to repair here.
func (p *Import) Key() string {
	return entity.KeyFor(
		[]string{p.ComputingID},
		[]string{p.LastName, p.FirstName},
	)
}

// Display implements entity.Import.
func (p *Import) Display() string {
	name := strings.TrimSpace(p.LastName + ", " + p.FirstName)
	name = strings.TrimSuffix(name, ",")
	if p.ComputingID != "" {
		return name + " (" + p.ComputingID + ")"
	}
	return name
}

// OrgKeys returns the table keys of the associated org-units, in list
// order.
func (p *Import) OrgKeys() []string {
	keys := make([]string, 0, len(p.Orgs))
	for _, o := range p.Orgs {
		if k := o.Key(); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Merge resolves two observations of the same person key. Scalar fields
// follow the shared policy; the org list is unioned by org table key,
// newly discovered associations first.
func Merge(existing, incoming *Import) *Import {
	existing.ComputingID = entity.PreferLonger(existing.ComputingID, incoming.ComputingID)
	existing.FirstName = entity.PreferLonger(existing.FirstName, incoming.FirstName)
	existing.LastName = entity.PreferLonger(existing.LastName, incoming.LastName)
	existing.Department = entity.PreferLonger(existing.Department, incoming.Department)
	existing.Institution = entity.PreferLonger(existing.Institution, incoming.Institution)
	existing.ORCID = entity.PreferLonger(existing.ORCID, incoming.ORCID)
	existing.Orgs = entity.UnionByKey(incoming.Orgs, existing.Orgs, func(o *orgunit.Import) string {
		return o.Key()
	})
	return existing
}
