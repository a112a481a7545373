package batch

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureItems writes n item directories, one file each, under root.
func fixtureItems(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "dublin_core.xml"), []byte("<dublin_core/>"), 0o644))
	}
}

func TestArchiverRun(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	fixtureItems(t, root, "item-a", "item-b", "item-c")

	arch := NewArchiver(root, out, "saf", "", zerolog.Nop())
	results, err := arch.Run(context.Background(), [][]string{
		{"item-a", "item-b"},
		{"item-c"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(out, "saf-1.zip"), results[0].Archive)
	assert.Equal(t, 2, results[0].Items)
	assert.Equal(t, filepath.Join(out, "saf-2.zip"), results[1].Archive)

	// Each member directory is stored under its directory name.
	zr, err := zip.OpenReader(results[0].Archive)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"item-a/dublin_core.xml",
		"item-b/dublin_core.xml",
	}, names)
}

func TestArchiverZeroPadsToPartCount(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()

	plan := make([][]string, 10)
	var all []string
	for i := range plan {
		name := string(rune('a'+i)) + "-item"
		plan[i] = []string{name}
		all = append(all, name)
	}
	fixtureItems(t, root, all...)

	arch := NewArchiver(root, out, "saf", "", zerolog.Nop())
	results, err := arch.Run(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 10)

	assert.Equal(t, "saf-01.zip", filepath.Base(results[0].Archive))
	assert.Equal(t, "saf-10.zip", filepath.Base(results[9].Archive))
}

func TestArchiverMissingMemberIsFatal(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	fixtureItems(t, root, "present")

	arch := NewArchiver(root, out, "saf", "", zerolog.Nop())
	_, err := arch.Run(context.Background(), [][]string{{"present", "absent"}})
	require.Error(t, err)
}

func TestArchiverVerificationFailureReported(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	fixtureItems(t, root, "item-a")

	// "false" exits nonzero: verification fails, the archive stays.
	arch := NewArchiver(root, out, "saf", "false", zerolog.Nop())
	results, err := arch.Run(context.Background(), [][]string{{"item-a"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Verified)
	assert.FileExists(t, results[0].Archive)
}
