package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreferLonger(t *testing.T) {
	cases := []struct {
		name               string
		existing, incoming string
		want               string
	}{
		{"empty existing takes incoming", "", "new", "new"},
		{"empty incoming keeps existing", "old", "", "old"},
		{"equal values stay", "same", "same", "same"},
		{"longer incoming wins", "short", "much longer", "much longer"},
		{"longer existing wins", "much longer", "short", "much longer"},
		{"existing wins ties", "abc", "xyz", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PreferLonger(tc.existing, tc.incoming))
		})
	}
}

func TestPreferLongerList(t *testing.T) {
	assert.Equal(t, []string{"a"}, PreferLongerList(nil, []string{"a"}))
	assert.Equal(t, []string{"a"}, PreferLongerList([]string{"a"}, nil))
	assert.Equal(t, []string{"a", "b"}, PreferLongerList([]string{"x"}, []string{"a", "b"}))
	// Existing wins ties.
	assert.Equal(t, []string{"x"}, PreferLongerList([]string{"x"}, []string{"a"}))
}

func TestUnionByKey(t *testing.T) {
	key := func(s string) string { return s }

	got := UnionByKey([]string{"b", "a"}, []string{"a", "c"}, key)
	assert.Equal(t, []string{"b", "a", "c"}, got)

	// Keyless entries are dropped.
	got = UnionByKey([]string{""}, []string{"a"}, key)
	assert.Equal(t, []string{"a"}, got)

	// Primary order is preserved ahead of secondary.
	got = UnionByKey([]string{"new"}, []string{"old", "new"}, key)
	assert.Equal(t, []string{"new", "old"}, got)
}
