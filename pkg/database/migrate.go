package database

import (
	"database/sql"
	"fmt"
)

// The cache schema is embedded so the tools work from any directory.
const schema = `
CREATE TABLE IF NOT EXISTS entities (
  kind       TEXT NOT NULL,
  key        TEXT NOT NULL,
  uuid       TEXT NOT NULL,
  handle     TEXT,
  name       TEXT,
  attributes TEXT, -- JSON object as text
  fetched_at TIMESTAMP NOT NULL,
  PRIMARY KEY (kind, key)
);

CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities (kind);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply cache schema: %w", err)
	}
	return nil
}
