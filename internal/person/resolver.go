package person

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Resolver normalizes person descriptors into imports. Org-unit
// derivation is delegated so both resolvers share one set of lookup
// tables per run.
type Resolver struct {
	orgs *orgunit.Resolver
	log  zerolog.Logger
}

func NewResolver(orgs *orgunit.Resolver, log zerolog.Logger) *Resolver {
	return &Resolver{
		orgs: orgs,
		log:  log.With().Str("component", "person").Logger(),
	}
}

// Resolve builds a person import from one descriptor. The descriptor's
// own department/institution pair seeds the org list. Nil means the
// descriptor was entirely empty.
func (r *Resolver) Resolve(d models.PersonDescriptor) *Import {
	if d.Empty() {
		return nil
	}

	imp := &Import{
		ComputingID: NormalizeComputingID(d.ComputingID),
		FirstName:   normalizeFirstName(d.FirstName),
		LastName:    strings.TrimSpace(d.LastName),
		Department:  strings.TrimSpace(d.Department),
		Institution: strings.TrimSpace(d.Institution),
		ORCID:       strings.TrimSpace(d.ORCID),
	}

	// Everyone gets a displayable identity: a nameless descriptor falls
	// back to its department, then its institution.
	if imp.FirstName == "" && imp.LastName == "" {
		if imp.Department != "" {
			imp.LastName = imp.Department
		} else {
			imp.LastName = imp.Institution
		}
	}

	if org := r.orgs.Resolve(d.Department, d.Institution); org != nil {
		imp.Orgs = []*orgunit.Import{org}
	}
	return imp
}

// NormalizeComputingID lowercases the id and strips an email-domain
// suffix some exports carry ("JS1@virginia.edu" -> "js1").
func NormalizeComputingID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if at := strings.IndexByte(id, '@'); at >= 0 {
		id = id[:at]
	}
	return id
}

// normalizeFirstName strips the courtesy title some depositors typed
// into the first-name field.
func normalizeFirstName(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "dr. ") {
		name = strings.TrimSpace(name[4:])
	}
	return name
}
