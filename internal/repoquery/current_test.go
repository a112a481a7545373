package repoquery

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

const (
	uuidA = "11111111-1111-1111-1111-111111111111"
	uuidB = "22222222-2222-2222-2222-222222222222"
)

func TestEntityKeyOrgUnit(t *testing.T) {
	e := models.RepoEntity{Attributes: map[string]string{
		attrOrgInstitution: "University of Virginia",
		attrOrgDepartment:  "Computer Science",
	}}
	assert.Equal(t, "university+of+virginia+computer+science", EntityKey(models.KindOrgUnit, e))

	// An explicit identifier wins over the derived key.
	e.Attributes[attrOrgIdentifier] = "ou-42"
	assert.Equal(t, "ou-42", EntityKey(models.KindOrgUnit, e))
}

func TestEntityKeyPerson(t *testing.T) {
	e := models.RepoEntity{Attributes: map[string]string{
		attrPersonFamily: "Smith",
		attrPersonGiven:  "Jane",
	}}
	assert.Equal(t, "smith+jane", EntityKey(models.KindPerson, e))

	e.Attributes[attrPersonID] = "JS1"
	assert.Equal(t, "js1", EntityKey(models.KindPerson, e))
}

func TestEntityKeyUnknownKind(t *testing.T) {
	assert.Empty(t, EntityKey("Widget", models.RepoEntity{Name: "x"}))
}

func TestBuildCurrent(t *testing.T) {
	items := []models.RepoEntity{
		{UUID: uuidA, Attributes: map[string]string{attrPersonID: "js1"}},
		{UUID: uuidB, Attributes: map[string]string{attrPersonFamily: "Jones", attrPersonGiven: "Bob"}},
		// No identity attributes: logged and skipped.
		{UUID: "33333333-3333-3333-3333-333333333333", Name: "mystery"},
	}

	cur := BuildCurrent(models.KindPerson, items, zerolog.Nop())
	require.Len(t, cur, 2)
	assert.True(t, cur.Has("js1"))
	assert.True(t, cur.Has("jones+bob"))

	e, ok := cur.Get("js1")
	require.True(t, ok)
	assert.Equal(t, uuidA, e.UUID)
}

func TestBuildCurrentSkipsMalformedUUIDs(t *testing.T) {
	items := []models.RepoEntity{
		{UUID: "not-a-uuid", Attributes: map[string]string{attrPersonID: "js1"}},
		{Attributes: map[string]string{attrPersonID: "ab2"}},
	}
	cur := BuildCurrent(models.KindPerson, items, zerolog.Nop())
	assert.Empty(t, cur)
}

func TestBuildCurrentFirstEntityWinsDuplicateKey(t *testing.T) {
	items := []models.RepoEntity{
		{UUID: uuidA, Attributes: map[string]string{attrPersonID: "js1"}},
		{UUID: uuidB, Attributes: map[string]string{attrPersonID: "JS1"}},
	}
	cur := BuildCurrent(models.KindPerson, items, zerolog.Nop())
	require.Len(t, cur, 1)

	e, _ := cur.Get("js1")
	assert.Equal(t, uuidA, e.UUID)
}

func TestCollections(t *testing.T) {
	items := []models.RepoEntity{
		{UUID: uuidA, Handle: "123456789/7", Name: "Publications"},
		{UUID: uuidB, Name: "Publications"}, // duplicate name, first wins
		{UUID: "33333333-3333-3333-3333-333333333333"},
	}

	cols := Collections(items)
	require.Len(t, cols, 1)
	assert.Equal(t, uuidA, cols["Publications"].UUID)
}
