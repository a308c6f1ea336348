// Package feedcache is a small SQLite cache of fetched feed items, keyed by
// the feed's mmddyy date key, so repeated fetches for the same day work
// offline. The pure Go driver (modernc.org/sqlite) is the default; the CGO
// driver (mattn/go-sqlite3) is selected with the cgo_sqlite build tag.
package feedcache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/autolectio/lectio/core/errors"
	"github.com/autolectio/lectio/internal/lectionary"
)

const schema = `
CREATE TABLE IF NOT EXISTS feed_items (
	date_key    TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	link        TEXT NOT NULL,
	description TEXT NOT NULL,
	fetched_at  TEXT NOT NULL
);`

// DriverType reports which SQLite implementation is compiled in.
func DriverType() string {
	return driverType
}

// Cache stores fetched feed items.
type Cache struct {
	db *sql.DB
}

// Open opens (and if needed creates) the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.NewIO("create cache directory", dir, err)
		}
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open cache", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize cache schema")
	}
	return &Cache{db: db}, nil
}

// Get returns the cached item for a date key, reporting whether it exists.
func (c *Cache) Get(ctx context.Context, dateKey string) (*lectionary.Item, bool, error) {
	var item lectionary.Item
	err := c.db.QueryRowContext(ctx,
		`SELECT title, link, description FROM feed_items WHERE date_key = ?`,
		dateKey,
	).Scan(&item.Title, &item.Link, &item.Description)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "query cache")
	}
	return &item, true, nil
}

// Put stores an item under a date key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, dateKey string, item *lectionary.Item) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO feed_items (date_key, title, link, description, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		dateKey, item.Title, item.Link, item.Description, time.Now().UTC().Format(time.RFC3339),
	)
	return errors.Wrap(err, "store cache item")
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
