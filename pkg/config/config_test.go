package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "export", cfg.SourceDir)
	assert.Equal(t, "import", cfg.ImportDir)
	assert.Equal(t, 1000, cfg.MaxBatch)
	assert.Equal(t, "University of Virginia", cfg.HomeInstitution)
	assert.Equal(t, "unzip", cfg.Verifier)
	assert.NotEmpty(t, cfg.CachePath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DSU_SOURCE_DIR", "/data/export")
	t.Setenv("DSU_MAX_BATCH", "250")
	t.Setenv("DSU_REPO_TOKEN", "sekrit")
	t.Setenv("DSU_HTTP_TIMEOUT", "5s")
	t.Setenv("DSU_CACHE_PATH", "/tmp/lookup.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/export", cfg.SourceDir)
	assert.Equal(t, 250, cfg.MaxBatch)
	assert.Equal(t, "sekrit", cfg.RepoToken)
	assert.Equal(t, "5s", cfg.HTTPTimeout.String())
	assert.Equal(t, "/tmp/lookup.db", cfg.CachePath)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("DSU_MAX_BATCH", "lots")

	_, err := Load()
	require.Error(t, err)
}
