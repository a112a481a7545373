package models

import "time"

// RepoEntity is one entity already present at the destination
// repository, as returned by its discovery API: the internal UUID, the
// persistent handle, a display name and the identity-bearing attributes
// the query service exposes for key reconstruction.
type RepoEntity struct {
	UUID       string            `json:"uuid"`
	Handle     string            `json:"handle,omitempty"`
	Name       string            `json:"name,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Attr returns the named attribute or "".
func (e RepoEntity) Attr(name string) string {
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[name]
}

// Entity kinds understood by the destination repository.
const (
	KindOrgUnit     = "OrgUnit"
	KindPerson      = "Person"
	KindPublication = "Publication"
	KindCollection  = "Collection"
)

// CachedEntity is a RepoEntity as stored in the local lookup cache,
// together with the table key it resolved to and when it was fetched.
type CachedEntity struct {
	Kind      string     `json:"kind"`
	Key       string     `json:"key"`
	Entity    RepoEntity `json:"entity"`
	FetchedAt time.Time  `json:"fetched_at"`
}
