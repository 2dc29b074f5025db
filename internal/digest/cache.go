package digest

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current cache schema version. Bump this when the schema
// changes; a mismatched cache is discarded and rebuilt.
const schemaVersion = 1

// Cache persists content digests between runs so unchanged files are not
// re-hashed. Entries are keyed by path and invalidated when size or mtime
// differ.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache initializes or connects to the digest cache database at path.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var version int
	err := c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := c.db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		// Stale cache: drop and recreate rather than migrating hash rows.
		if _, err := c.db.ExecContext(ctx, "DELETE FROM digests"); err != nil {
			return fmt.Errorf("clear stale cache: %w", err)
		}
		if _, err := c.db.ExecContext(ctx, "UPDATE schema_version SET version = ?", schemaVersion); err != nil {
			return fmt.Errorf("update schema version: %w", err)
		}
	}
	return nil
}

// Lookup returns the cached digest for path when size and mtime still match.
func (c *Cache) Lookup(ctx context.Context, path string, size, mtimeUnixNS int64) (string, bool, error) {
	var (
		cachedSize  int64
		cachedMtime int64
		cachedValue string
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT size, mtime_unix_ns, digest FROM digests WHERE path = ?",
		path,
	).Scan(&cachedSize, &cachedMtime, &cachedValue)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup digest: %w", err)
	}
	if cachedSize != size || cachedMtime != mtimeUnixNS {
		return "", false, nil
	}
	return cachedValue, true, nil
}

// Store upserts the digest for path.
func (c *Cache) Store(ctx context.Context, path string, size, mtimeUnixNS int64, value string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO digests (path, size, mtime_unix_ns, digest, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             size = excluded.size,
             mtime_unix_ns = excluded.mtime_unix_ns,
             digest = excluded.digest,
             updated_at = excluded.updated_at`,
		path, size, mtimeUnixNS, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store digest: %w", err)
	}
	return nil
}

// Forget drops the cache row for path. Called after a file is moved or
// deleted so the cache does not accumulate dead paths.
func (c *Cache) Forget(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM digests WHERE path = ?", path); err != nil {
		return fmt.Errorf("forget digest: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Close releases the database handle.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
