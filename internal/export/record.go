// Package export scans the legacy repository's export tree and groups
// each work's files into a typed record bundle.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Record is one exported work: the external id from the directory name
// plus the classified files found inside. The accumulator fields are
// filled in during the resolution pass of a run and are never persisted.
type Record struct {
	ID  string
	Dir string

	WorkPath       string
	RightsPath     string
	EmbargoPath    string
	VisibilityPath string

	AuthorPaths      []string
	ContributorPaths []string
	FilesetPaths     []string
	ContentPaths     []string

	// PersonOrgs maps a person table key to the org-units resolved from
	// that person's descriptors on this record.
	PersonOrgs map[string][]*orgunit.Import

	// AuthorIdentity maps a depositor/computing id to the external
	// author-identity string (ORCID) a descriptor carried.
	AuthorIdentity map[string]string
}

// AttachOrgs records the org-units resolved for a person mentioned on
// this record, deduplicating by org table key.
func (r *Record) AttachOrgs(personKey string, orgs []*orgunit.Import) {
	if personKey == "" || len(orgs) == 0 {
		return
	}
	if r.PersonOrgs == nil {
		r.PersonOrgs = make(map[string][]*orgunit.Import)
	}
	existing := r.PersonOrgs[personKey]
	seen := make(map[string]bool, len(existing))
	for _, o := range existing {
		seen[o.Key()] = true
	}
	for _, o := range orgs {
		if k := o.Key(); k != "" && !seen[k] {
			seen[k] = true
			existing = append(existing, o)
		}
	}
	r.PersonOrgs[personKey] = existing
}

// SetAuthorIdentity records an external identity string for a
// depositor/computing id.
func (r *Record) SetAuthorIdentity(id, identity string) {
	if id == "" || identity == "" {
		return
	}
	if r.AuthorIdentity == nil {
		r.AuthorIdentity = make(map[string]string)
	}
	r.AuthorIdentity[id] = identity
}

// LoadWork parses the record's work.json.
func (r *Record) LoadWork() (models.WorkDescriptor, error) {
	var w models.WorkDescriptor
	if err := readJSON(r.WorkPath, &w); err != nil {
		return models.WorkDescriptor{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return w, nil
}

// LoadRights parses the record's rights.json. A missing file yields the
// zero value.
func (r *Record) LoadRights() (models.RightsDescriptor, error) {
	var rights models.RightsDescriptor
	if r.RightsPath == "" {
		return rights, nil
	}
	if err := readJSON(r.RightsPath, &rights); err != nil {
		return models.RightsDescriptor{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return rights, nil
}

// LoadEmbargo parses the optional embargo.json; nil when absent.
func (r *Record) LoadEmbargo() (*models.EmbargoDescriptor, error) {
	if r.EmbargoPath == "" {
		return nil, nil
	}
	var e models.EmbargoDescriptor
	if err := readJSON(r.EmbargoPath, &e); err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return &e, nil
}

// LoadVisibility parses the record's visibility.json. A missing file
// defaults to open.
func (r *Record) LoadVisibility() (models.VisibilityDescriptor, error) {
	if r.VisibilityPath == "" {
		return models.VisibilityDescriptor{Visibility: models.VisibilityOpen}, nil
	}
	var v models.VisibilityDescriptor
	if err := readJSON(r.VisibilityPath, &v); err != nil {
		return models.VisibilityDescriptor{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return v, nil
}

// LoadAuthors parses the author descriptors in declared order.
func (r *Record) LoadAuthors() ([]models.PersonDescriptor, error) {
	return loadPersons(r.ID, r.AuthorPaths)
}

// LoadContributors parses the contributor descriptors in declared order.
func (r *Record) LoadContributors() ([]models.PersonDescriptor, error) {
	return loadPersons(r.ID, r.ContributorPaths)
}

// LoadFilesets parses the content descriptors in declared order.
func (r *Record) LoadFilesets() ([]models.FilesetDescriptor, error) {
	out := make([]models.FilesetDescriptor, 0, len(r.FilesetPaths))
	for _, p := range r.FilesetPaths {
		var f models.FilesetDescriptor
		if err := readJSON(p, &f); err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func loadPersons(id string, paths []string) ([]models.PersonDescriptor, error) {
	out := make([]models.PersonDescriptor, 0, len(paths))
	for _, p := range paths {
		var d models.PersonDescriptor
		if err := readJSON(p, &d); err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
