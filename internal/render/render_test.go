package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/internal/person"
	"github.com/uvalib/dspace-util-sub000/internal/publication"
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Formatting internals are deliberately opaque; the tests only assert
// that documents are produced and carry the identity fields.

func TestOrgUnitDocument(t *testing.T) {
	r := NewDC()
	doc, err := r.OrgUnit(&orgunit.Import{
		Title:       "Computer Science",
		Description: []string{"institution: University of Virginia"},
	})
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "<dublin_core")
	assert.Contains(t, s, "Computer Science")
}

func TestPersonDocument(t *testing.T) {
	r := NewDC()
	doc, err := r.Person(&person.Import{
		ComputingID: "js1",
		FirstName:   "Jane",
		LastName:    "Smith",
	})
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "Smith, Jane")
	assert.Contains(t, s, "js1")
}

func TestPublicationDocument(t *testing.T) {
	r := NewDC()
	it := &publication.Item{
		ID:   "1234",
		Work: models.WorkDescriptor{Title: "On Testing", Keywords: []string{"qa"}},
	}
	doc, err := r.Publication(it)
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "On Testing")
	assert.Contains(t, s, "1234")
}

func TestDocumentEscapesMarkup(t *testing.T) {
	r := NewDC()
	doc, err := r.OrgUnit(&orgunit.Import{Title: "R&D <Lab>"})
	require.NoError(t, err)

	s := string(doc)
	assert.Contains(t, s, "R&amp;D &lt;Lab&gt;")
	assert.NotContains(t, s, "<Lab>")
}

func TestBlankValuesAreDropped(t *testing.T) {
	r := NewDC()
	doc, err := r.Person(&person.Import{LastName: "Smith"})
	require.NoError(t, err)

	// No identifier elements when the fields are blank.
	assert.NotContains(t, string(doc), `qualifier="orcid"`)
}
