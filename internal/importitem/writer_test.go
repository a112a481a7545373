package importitem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteItem(t *testing.T) {
	root := filepath.Join(t.TempDir(), "import")
	w := NewWriter(root, zerolog.Nop())
	require.NoError(t, w.EnsureRoot())

	src := filepath.Join(t.TempDir(), "blob-1")
	require.NoError(t, os.WriteFile(src, []byte("pdf bytes"), 0o644))

	err := w.Write("item-1", Files{
		Metadata:      []byte("<dublin_core/>"),
		Relationships: []string{"relation.isAuthorOfPublication uuid-1"},
		Collections:   []string{"123456789/7"},
		Contents:      []string{"thesis.pdf\tbundle:ORIGINAL"},
		Copies:        []Copy{{Source: src, Name: "thesis.pdf"}},
	})
	require.NoError(t, err)

	dir := filepath.Join(root, "item-1")
	meta, err := os.ReadFile(filepath.Join(dir, "dublin_core.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<dublin_core/>", string(meta))

	rels, err := os.ReadFile(filepath.Join(dir, "relationships"))
	require.NoError(t, err)
	assert.Equal(t, "relation.isAuthorOfPublication uuid-1\n", string(rels))

	copied, err := os.ReadFile(filepath.Join(dir, "thesis.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(copied))
}

func TestWriteSkipsEmptyFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "import")
	w := NewWriter(root, zerolog.Nop())
	require.NoError(t, w.EnsureRoot())

	require.NoError(t, w.Write("item-1", Files{Metadata: []byte("<dublin_core/>")}))

	dir := filepath.Join(root, "item-1")
	assert.NoFileExists(t, filepath.Join(dir, "relationships"))
	assert.NoFileExists(t, filepath.Join(dir, "collections"))
	assert.NoFileExists(t, filepath.Join(dir, "contents"))
}

func TestWriteReplacesExistingItemDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "import")
	w := NewWriter(root, zerolog.Nop())
	require.NoError(t, w.EnsureRoot())

	stale := filepath.Join(root, "item-1", "leftover")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	require.NoError(t, w.Write("item-1", Files{Metadata: []byte("<dublin_core/>")}))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(root, "item-1", "dublin_core.xml"))
}

func TestClearRootRemovesStaleOutput(t *testing.T) {
	root := filepath.Join(t.TempDir(), "import")
	w := NewWriter(root, zerolog.Nop())
	require.NoError(t, w.EnsureRoot())
	require.NoError(t, w.Write("stale", Files{Metadata: []byte("<dublin_core/>")}))

	require.NoError(t, w.ClearRoot())
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteMissingContentFileIsFatal(t *testing.T) {
	root := filepath.Join(t.TempDir(), "import")
	w := NewWriter(root, zerolog.Nop())
	require.NoError(t, w.EnsureRoot())

	err := w.Write("item-1", Files{
		Copies: []Copy{{Source: filepath.Join(t.TempDir(), "absent"), Name: "thesis.pdf"}},
	})
	require.Error(t, err)
}
