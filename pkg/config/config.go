// Package config loads the runtime configuration shared by the
// command-line tools. Values come from the environment (optionally via a
// .env file); individual tools let flags override the loaded values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// SourceDir holds the legacy export tree (one work.<id> directory
	// per record). ImportDir receives the built import-item directories
	// and archives.
	SourceDir string `env:"DSU_SOURCE_DIR" envDefault:"export"`
	ImportDir string `env:"DSU_IMPORT_DIR" envDefault:"import"`

	// Destination repository discovery API.
	RepoBaseURL string        `env:"DSU_REPO_URL" envDefault:"http://localhost:8080"`
	RepoToken   string        `env:"DSU_REPO_TOKEN"`
	PageSize    int           `env:"DSU_PAGE_SIZE" envDefault:"100"`
	HTTPTimeout time.Duration `env:"DSU_HTTP_TIMEOUT" envDefault:"30s"`

	// Target collections at the destination, by display name.
	OrgUnitCollection     string `env:"DSU_ORGUNIT_COLLECTION" envDefault:"Organisational Units"`
	PersonCollection      string `env:"DSU_PERSON_COLLECTION" envDefault:"People"`
	PublicationCollection string `env:"DSU_PUBLICATION_COLLECTION" envDefault:"Publications"`

	// HomeInstitution anchors department normalization; departments of
	// other institutions get the lighter treatment.
	HomeInstitution string `env:"DSU_HOME_INSTITUTION" envDefault:"University of Virginia"`

	// Destination groups granted bitstream read access for non-open
	// items.
	CampusGroup     string `env:"DSU_CAMPUS_GROUP" envDefault:"UVA Community"`
	RestrictedGroup string `env:"DSU_RESTRICTED_GROUP" envDefault:"Administrator"`

	// MaxBatch is the destination importer's practical per-batch entity
	// cap, used both as the phase-ALL guard and the implicit zip bound.
	MaxBatch int `env:"DSU_MAX_BATCH" envDefault:"1000"`

	// LookupDir overrides the embedded org-unit lookup tables
	// (schools.yaml, departments.yaml, institutions.yaml).
	LookupDir string `env:"DSU_LOOKUP_DIR"`

	// CachePath locates the SQLite lookup cache. Empty selects
	// ~/.dspace-util/lookup.db.
	CachePath string `env:"DSU_CACHE_PATH"`

	// Verifier is the external archive checker invoked after each zip.
	Verifier string `env:"DSU_ZIP_VERIFIER" envDefault:"unzip"`
}

// Load reads .env (when present) and the environment.
func Load() (Config, error) {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CachePath == "" {
		cfg.CachePath = defaultCachePath()
	}
	return cfg, nil
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".dspace-util", "lookup.db")
}
