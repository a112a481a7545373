package orgunit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTablesDefaults(t *testing.T) {
	tables, err := LoadTables("")
	require.NoError(t, err)

	assert.Equal(t, "School of Engineering", tables.Schools["EN"])
	assert.Equal(t, "School of Medicine", tables.Schools["MD"])
	assert.Equal(t, "Computer Science", tables.Departments["Comp Science Dept"])
	assert.Equal(t, "University of Virginia", tables.Institutions["UVA"])
}

func TestLoadTablesDirOverride(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "schools.yaml"), []byte("ZZ: Test School\n"), 0o644)
	require.NoError(t, err)

	tables, err := LoadTables(dir)
	require.NoError(t, err)

	// The provided file replaces the embedded one wholesale.
	assert.Equal(t, "Test School", tables.Schools["ZZ"])
	assert.Empty(t, tables.Schools["EN"])

	// Files the directory does not provide still come from the defaults.
	assert.Equal(t, "Computer Science", tables.Departments["Comp Science Dept"])
}

func TestLoadTablesBadYAML(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "departments.yaml"), []byte("{not yaml"), 0o644)
	require.NoError(t, err)

	_, err = LoadTables(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "departments.yaml")
}

func TestLookupCaseInsensitive(t *testing.T) {
	table := map[string]string{"UVA": "University of Virginia"}

	v, ok := lookup(table, "UVA")
	require.True(t, ok)
	assert.Equal(t, "University of Virginia", v)

	v, ok = lookup(table, "uva")
	require.True(t, ok)
	assert.Equal(t, "University of Virginia", v)

	_, ok = lookup(table, "VT")
	assert.False(t, ok)
}
