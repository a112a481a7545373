package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyForDeterministic(t *testing.T) {
	a := KeyFor([]string{"js1"})
	b := KeyFor([]string{"js1"})
	assert.Equal(t, a, b)
	assert.Equal(t, "js1", a)
}

func TestKeyForCaseAndWhitespaceInsensitive(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want string
	}{
		{"lowercases", []string{"JS1"}, "js1"},
		{"trims", []string{"  js1  "}, "js1"},
		{"collapses inner runs", []string{"Computer   Science"}, "computer+science"},
		{"strips diacritics", []string{"José"}, "jose"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KeyFor(tc.in))
		})
	}
}

func TestKeyForGroupPriority(t *testing.T) {
	// The first group with any non-empty component wins.
	key := KeyFor([]string{"js1"}, []string{"Smith", "Jane"})
	assert.Equal(t, "js1", key)

	key = KeyFor([]string{""}, []string{"Smith", "Jane"})
	assert.Equal(t, "smith+jane", key)
}

func TestKeyForJoinsAndEscapes(t *testing.T) {
	key := KeyFor([]string{"University of Virginia", "Computer Science"})
	assert.Equal(t, "university+of+virginia+computer+science", key)

	// Characters unsafe for a directory name are percent-escaped.
	key = KeyFor([]string{"a/b", "c&d"})
	assert.Equal(t, "a%2Fb+c%26d", key)
}

func TestKeyForSpacesCollideWithConnector(t *testing.T) {
	// Spaces escape to the connector character, so differently split
	// fields can derive the same key. Preserved legacy behavior.
	a := KeyFor([]string{"university of", "virginia"})
	b := KeyFor([]string{"university", "of virginia"})
	assert.Equal(t, a, b)
	assert.Equal(t, "university+of+virginia", a)
}

func TestKeyForStripsTrailingConnectors(t *testing.T) {
	key := KeyFor([]string{"Smith", ""})
	assert.Equal(t, "smith", key)

	key = KeyFor([]string{"Smith", "", ""})
	assert.Equal(t, "smith", key)
}

func TestKeyForEmptyInput(t *testing.T) {
	assert.Equal(t, "", KeyFor([]string{"", "  "}))
	assert.Equal(t, "", KeyFor())
	assert.Equal(t, "", KeyFor([]string{""}, []string{"\t", " "}))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "computer science", Normalize("  Computer   Science "))
	assert.Equal(t, "jose garcia", Normalize("José  García"))
	assert.Equal(t, "", Normalize("   "))
}
