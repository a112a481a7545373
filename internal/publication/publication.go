// Package publication assembles one import item per export record:
// metadata, entity relationships, collection assignment, access posture
// and the ordered content manifest.
package publication

import (
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Ref points at a related entity: a destination UUID when the entity
// already exists, or a folderName forward reference into the batch
// being built.
type Ref struct {
	Display string
	Key     string
	Target  string
}

// ManifestEntry is one bitstream in the contents manifest.
type ManifestEntry struct {
	// Name is the bitstream filename declared by the content descriptor.
	Name string
	// Source is the path of the matching export content file.
	Source string
	Label  string
	// Permissions names the group granted read access when the item is
	// not open; empty means no restriction line.
	Permissions string
	// Checksum is the sha-256 hex of the source file, empty when the
	// file could not be hashed.
	Checksum string
}

// ContentsLine renders the entry as one line of the contents manifest.
func (e ManifestEntry) ContentsLine() string {
	line := e.Name + "\tbundle:ORIGINAL"
	if e.Label != "" {
		line += "\tdescription:" + e.Label
	}
	if e.Permissions != "" {
		line += "\tpermissions:-r '" + e.Permissions + "'"
	}
	if e.Checksum != "" {
		line += "\tchecksum:" + e.Checksum
	}
	return line
}

// Access is the derived access posture of one publication.
type Access struct {
	// Term is the effective visibility: open, campus or restricted.
	Term string
	// EmbargoActive is true while a release date lies in the future and
	// no deactivation has been recorded.
	EmbargoActive bool
	// ReleaseDate is the embargo lift date (2006-01-02) when active.
	ReleaseDate string
	// ReadGroup names the destination group bitstream reads are
	// restricted to; empty when the item is open.
	ReadGroup string
}

// Item is one fully assembled publication import, ready for rendering
// and writing. Publications are never merged; the external id doubles
// as the item directory name.
type Item struct {
	ID     string
	Work   models.WorkDescriptor
	Rights models.RightsDescriptor
	Access Access

	Authors      []Ref
	Contributors []Ref
	// Orgs is the unique set of org-units associated with the record's
	// authors and contributors, first-seen order.
	Orgs []Ref

	// DepositorORCID is the external author identity recorded for the
	// depositing author, when one of its descriptors carried it.
	DepositorORCID string

	Relationships []string
	Collections   []string
	Manifest      []ManifestEntry

	// Problems lists non-fatal data-quality findings (unlisted content
	// files, descriptors naming missing files), for operator reports.
	Problems []string
}

// AuthorDisplays returns the author display names in author order.
func (it *Item) AuthorDisplays() []string {
	out := make([]string, 0, len(it.Authors))
	for _, a := range it.Authors {
		if a.Display != "" {
			out = append(out, a.Display)
		}
	}
	return out
}

// ContributorDisplays returns the contributor display names in order.
func (it *Item) ContributorDisplays() []string {
	out := make([]string, 0, len(it.Contributors))
	for _, c := range it.Contributors {
		if c.Display != "" {
			out = append(out, c.Display)
		}
	}
	return out
}
