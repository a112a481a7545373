package repoquery

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/internal/entity"
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Attribute names the destination exposes; the identity attributes feed
// the same key derivation the import side uses.
const (
	attrOrgIdentifier  = "organization.identifier"
	attrOrgInstitution = "organization.institution"
	attrOrgDepartment  = "organization.department"

	attrPersonID     = "person.identifier"
	attrPersonFamily = "person.familyName"
	attrPersonGiven  = "person.givenName"
)

// EntityKey rebuilds the table key for a destination entity. Empty when
// the entity exposes no identity attributes for its kind.
func EntityKey(kind string, e models.RepoEntity) string {
	switch kind {
	case models.KindOrgUnit:
		return entity.KeyFor(
			[]string{e.Attr(attrOrgIdentifier)},
			[]string{e.Attr(attrOrgInstitution), e.Attr(attrOrgDepartment)},
		)
	case models.KindPerson:
		return entity.KeyFor(
			[]string{e.Attr(attrPersonID)},
			[]string{e.Attr(attrPersonFamily), e.Attr(attrPersonGiven)},
		)
	case models.KindCollection:
		return entity.KeyFor([]string{e.Name})
	default:
		return ""
	}
}

// BuildCurrent converts fetched entities into a key-addressed table.
// Entities that yield no key are logged and skipped; on duplicate keys
// the first entity wins.
func BuildCurrent(kind string, items []models.RepoEntity, log zerolog.Logger) entity.Current {
	cur := make(entity.Current, len(items))
	for _, e := range items {
		// A malformed UUID would later be emitted verbatim into
		// relationship lines; drop the entity so the import side falls
		// back to a forward reference instead.
		if e.UUID == "" || uuid.Validate(e.UUID) != nil {
			log.Warn().
				Str("kind", kind).
				Str("uuid", e.UUID).
				Str("name", e.Name).
				Msg("destination entity has a malformed uuid, skipping")
			continue
		}
		key := EntityKey(kind, e)
		if key == "" {
			log.Warn().
				Str("kind", kind).
				Str("uuid", e.UUID).
				Str("name", e.Name).
				Msg("destination entity has no identity attributes, skipping")
			continue
		}
		if _, dup := cur[key]; dup {
			log.Debug().Str("kind", kind).Str("key", key).Msg("duplicate destination key, keeping first")
			continue
		}
		cur[key] = e
	}
	return cur
}

// Collections maps collection display name to its destination entity,
// first name wins on duplicates.
func Collections(items []models.RepoEntity) map[string]models.RepoEntity {
	out := make(map[string]models.RepoEntity, len(items))
	for _, e := range items {
		if e.Name == "" {
			continue
		}
		if _, dup := out[e.Name]; !dup {
			out[e.Name] = e
		}
	}
	return out
}
