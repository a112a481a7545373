package repoquery

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Cache persists fetched destination entities in the local SQLite
// lookup database so later runs can consult them offline.
type Cache struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewCache wraps an open lookup database.
func NewCache(db *sql.DB, log zerolog.Logger) *Cache {
	return &Cache{db: db, log: log.With().Str("component", "lookup-cache").Logger()}
}

// Save replaces the cached rows of one kind with the given entities.
func (c *Cache) Save(ctx context.Context, kind string, items []models.RepoEntity) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities WHERE kind = ?`, kind); err != nil {
		return fmt.Errorf("clear %s rows: %w", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (kind, key, uuid, handle, name, attributes, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, key) DO UPDATE SET
		  uuid = excluded.uuid,
		  handle = excluded.handle,
		  name = excluded.name,
		  attributes = excluded.attributes,
		  fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	saved := 0
	for _, e := range items {
		key := EntityKey(kind, e)
		if key == "" {
			c.log.Warn().Str("kind", kind).Str("uuid", e.UUID).Msg("entity has no key, not caching")
			continue
		}
		attrs, err := json.Marshal(e.Attributes)
		if err != nil {
			return fmt.Errorf("marshal attributes for %s: %w", e.UUID, err)
		}
		if _, err := stmt.ExecContext(ctx, kind, key, e.UUID, e.Handle, e.Name, string(attrs), now); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", e.UUID, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	c.log.Info().Str("kind", kind).Int("cached", saved).Msg("lookup cache updated")
	return nil
}

// Entities implements Source from cached rows. An empty cache for the
// kind is an error so an offline run cannot mistake staleness for an
// empty repository.
func (c *Cache) Entities(ctx context.Context, kind string) ([]models.RepoEntity, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT uuid, handle, name, attributes FROM entities WHERE kind = ? ORDER BY key`, kind)
	if err != nil {
		return nil, fmt.Errorf("query %s rows: %w", kind, err)
	}
	defer rows.Close()

	var out []models.RepoEntity
	for rows.Next() {
		var e models.RepoEntity
		var attrs string
		if err := rows.Scan(&e.UUID, &e.Handle, &e.Name, &attrs); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind, err)
		}
		if attrs != "" {
			if err := json.Unmarshal([]byte(attrs), &e.Attributes); err != nil {
				return nil, fmt.Errorf("decode attributes for %s: %w", e.UUID, err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", kind, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("lookup cache has no %s entities; run sync-entities first", kind)
	}
	return out, nil
}

// Dump returns the cached rows of one kind with their keys and fetch
// times, in key order.
func (c *Cache) Dump(ctx context.Context, kind string) ([]models.CachedEntity, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT key, uuid, handle, name, attributes, fetched_at FROM entities WHERE kind = ? ORDER BY key`, kind)
	if err != nil {
		return nil, fmt.Errorf("query %s rows: %w", kind, err)
	}
	defer rows.Close()

	var out []models.CachedEntity
	for rows.Next() {
		ce := models.CachedEntity{Kind: kind}
		var attrs, fetched string
		if err := rows.Scan(&ce.Key, &ce.Entity.UUID, &ce.Entity.Handle, &ce.Entity.Name, &attrs, &fetched); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind, err)
		}
		if attrs != "" {
			if err := json.Unmarshal([]byte(attrs), &ce.Entity.Attributes); err != nil {
				return nil, fmt.Errorf("decode attributes for %s: %w", ce.Entity.UUID, err)
			}
		}
		if fetched != "" {
			if t, err := time.Parse(time.RFC3339, fetched); err == nil {
				ce.FetchedAt = t
			}
		}
		out = append(out, ce)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", kind, err)
	}
	return out, nil
}

// LastSync reports when the kind was last fetched; zero when never.
func (c *Cache) LastSync(ctx context.Context, kind string) (time.Time, error) {
	var fetched sql.NullString
	err := c.db.QueryRowContext(ctx,
		`SELECT MAX(fetched_at) FROM entities WHERE kind = ?`, kind).Scan(&fetched)
	if err != nil {
		return time.Time{}, fmt.Errorf("query last sync for %s: %w", kind, err)
	}
	if !fetched.Valid || fetched.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, fetched.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse fetched_at %q: %w", fetched.String, err)
	}
	return t, nil
}
