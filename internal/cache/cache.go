// Package cache is a SQLite-backed response cache keyed by prompt digest.
//
// The cache is strictly best-effort: a nil *Cache is a valid no-op cache,
// and callers are expected to treat read/write failures as misses rather
// than query failures.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache stores model responses keyed by a digest of the request.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key      TEXT PRIMARY KEY,
	model    TEXT NOT NULL,
	response TEXT NOT NULL,
	created  DATETIME NOT NULL
);`

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create responses table: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached response for key, with ok=false on a miss.
// A nil cache always misses.
func (c *Cache) Get(key string) (string, bool, error) {
	if c == nil || c.db == nil {
		return "", false, nil
	}
	var resp string
	err := c.db.QueryRow("SELECT response FROM responses WHERE key = ?", key).Scan(&resp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache lookup: %w", err)
	}
	return resp, true, nil
}

// Put stores a response under key, replacing any previous entry.
// A nil cache is a no-op.
func (c *Cache) Put(key, model, response string) error {
	if c == nil || c.db == nil {
		return nil
	}
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO responses (key, model, response, created) VALUES (?, ?, ?, ?)",
		key, model, response, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}

// Close releases the database handle. Safe on a nil cache.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
