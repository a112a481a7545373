package publication

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/internal/entity"
	"github.com/uvalib/dspace-util-sub000/internal/export"
	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/internal/person"
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Assembler turns export records into publication import items. It
// consults the person resolver for identity keys and the destination
// snapshots for relationship targets.
type Assembler struct {
	persons       *person.Resolver
	orgsCur       entity.Current
	personsCur    entity.Current
	groups        Groups
	collectionRef string
	log           zerolog.Logger
	now           func() time.Time
}

// NewAssembler wires an assembler for one run. collectionRef is the
// destination collection line every publication is assigned to (handle
// or uuid), empty when unresolved.
func NewAssembler(persons *person.Resolver, orgsCur, personsCur entity.Current, groups Groups, collectionRef string, log zerolog.Logger) *Assembler {
	return &Assembler{
		persons:       persons,
		orgsCur:       orgsCur,
		personsCur:    personsCur,
		groups:        groups,
		collectionRef: collectionRef,
		log:           log.With().Str("component", "publication").Logger(),
		now:           time.Now,
	}
}

// Assemble builds the import item for one record. Errors are
// record-level (unreadable documents); the caller logs and skips the
// record, the run continues.
func (a *Assembler) Assemble(rec *export.Record) (*Item, error) {
	work, err := rec.LoadWork()
	if err != nil {
		return nil, err
	}
	rights, err := rec.LoadRights()
	if err != nil {
		return nil, err
	}
	vis, err := rec.LoadVisibility()
	if err != nil {
		return nil, err
	}
	emb, err := rec.LoadEmbargo()
	if err != nil {
		return nil, err
	}
	authors, err := rec.LoadAuthors()
	if err != nil {
		return nil, err
	}
	contributors, err := rec.LoadContributors()
	if err != nil {
		return nil, err
	}
	filesets, err := rec.LoadFilesets()
	if err != nil {
		return nil, err
	}

	it := &Item{ID: rec.ID, Work: work, Rights: rights}
	it.Access = deriveAccess(vis, emb, a.groups, a.now())

	seenOrg := make(map[string]bool)
	for _, d := range authors {
		imp := a.persons.Resolve(d)
		if imp == nil {
			a.log.Debug().Str("id", rec.ID).Msg("empty author descriptor, skipped")
			continue
		}
		it.Authors = append(it.Authors, a.personRef(imp))
		a.collectOrgs(it, rec, imp, seenOrg)
		if imp.ComputingID != "" && imp.ORCID != "" {
			rec.SetAuthorIdentity(imp.ComputingID, imp.ORCID)
		}
	}
	for _, d := range contributors {
		imp := a.persons.Resolve(d)
		if imp == nil {
			a.log.Debug().Str("id", rec.ID).Msg("empty contributor descriptor, skipped")
			continue
		}
		it.Contributors = append(it.Contributors, a.personRef(imp))
		a.collectOrgs(it, rec, imp, seenOrg)
	}

	if cid := person.NormalizeComputingID(work.Depositor); cid != "" {
		it.DepositorORCID = rec.AuthorIdentity[cid]
	}

	it.Manifest = a.buildManifest(rec, filesets, it)
	it.Relationships = a.relationships(it)
	if a.collectionRef != "" {
		it.Collections = []string{a.collectionRef}
	}
	return it, nil
}

func (a *Assembler) personRef(imp *person.Import) Ref {
	ref := Ref{Display: imp.Display(), Key: imp.Key()}
	if ref.Key != "" {
		ref.Target = target(a.personsCur, ref.Key)
	}
	return ref
}

// collectOrgs appends the record's org-units for one person, unique by
// org key across the whole item. The record's attached orgs win; the
// freshly resolved ones cover standalone use.
func (a *Assembler) collectOrgs(it *Item, rec *export.Record, imp *person.Import, seen map[string]bool) {
	orgs := rec.PersonOrgs[imp.Key()]
	if len(orgs) == 0 {
		orgs = imp.Orgs
	}
	for _, o := range orgs {
		k := o.Key()
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		it.Orgs = append(it.Orgs, Ref{Display: o.Title, Key: k, Target: target(a.orgsCur, k)})
	}
}

// buildManifest orders and renames content files per the content
// descriptors. Descriptors naming missing files and content files no
// descriptor lists are flagged, logged and excluded, never fatal.
func (a *Assembler) buildManifest(rec *export.Record, filesets []models.FilesetDescriptor, it *Item) []ManifestEntry {
	available := make(map[string]string, len(rec.ContentPaths))
	for _, p := range rec.ContentPaths {
		available[filepath.Base(p)] = p
	}
	claimed := make(map[string]bool, len(available))

	var manifest []ManifestEntry
	for _, fs := range filesets {
		src := strings.TrimSpace(fs.Source)
		if src == "" {
			src = strings.TrimSpace(fs.Name)
		}
		path, ok := available[src]
		if !ok {
			it.Problems = append(it.Problems, fmt.Sprintf("%s: content descriptor names missing file %q", rec.ID, src))
			a.log.Error().Str("id", rec.ID).Str("source", src).Msg("content descriptor names a missing file")
			continue
		}
		claimed[src] = true

		name := strings.TrimSpace(fs.Name)
		if name == "" {
			name = src
		}
		entry := ManifestEntry{
			Name:        name,
			Source:      path,
			Label:       strings.TrimSpace(fs.Label),
			Permissions: it.Access.ReadGroup,
		}
		if sum, err := hashFile(path); err != nil {
			a.log.Warn().Str("id", rec.ID).Str("file", src).Err(err).Msg("cannot hash content file")
		} else {
			entry.Checksum = sum
		}
		manifest = append(manifest, entry)
	}

	for _, p := range rec.ContentPaths {
		base := filepath.Base(p)
		if claimed[base] {
			continue
		}
		it.Problems = append(it.Problems, fmt.Sprintf("%s: content file %q not listed by any descriptor", rec.ID, base))
		a.log.Error().Str("id", rec.ID).Str("file", base).Msg("content file not listed by any descriptor")
	}
	return manifest
}

// relationships renders the item's relationship lines: one author line
// per keyed author, one org line per associated org-unit.
func (a *Assembler) relationships(it *Item) []string {
	var lines []string
	for _, ref := range it.Authors {
		if ref.Target != "" {
			lines = append(lines, "relation.isAuthorOfPublication "+ref.Target)
		}
	}
	for _, ref := range it.Orgs {
		if ref.Target != "" {
			lines = append(lines, "relation.isOrgUnitOfPublication "+ref.Target)
		}
	}
	return lines
}

// target resolves a table key to a destination UUID when the entity
// already exists, else to a folderName forward reference into the
// batch.
func target(cur entity.Current, key string) string {
	if e, ok := cur.Get(key); ok && e.UUID != "" {
		return e.UUID
	}
	return "folderName:" + key
}

// OrgRefs converts a person's org list into refs against the given
// destination snapshot. Used when materializing person items.
func OrgRefs(orgs []*orgunit.Import, cur entity.Current) []Ref {
	refs := make([]Ref, 0, len(orgs))
	for _, o := range orgs {
		k := o.Key()
		if k == "" {
			continue
		}
		refs = append(refs, Ref{Display: o.Title, Key: k, Target: target(cur, k)})
	}
	return refs
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", filepath.Base(path), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
