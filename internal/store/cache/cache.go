package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"raybrowser/internal/api"
)

// ErrNotCached is returned by Get for unknown elements
var ErrNotCached = errors.New("element not cached")

const table = "element_details"

// DetailCache keeps element details fetched during the session in SQLite.
// Use ":memory:" for a cache that disappears with the process.
type DetailCache struct {
	db  *sql.DB
	sql squirrel.StatementBuilderType
}

// Open opens (or creates) the cache database
func Open(path string) (*DetailCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// An in-memory database lives per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	c := &DetailCache{
		db:  db,
		sql: squirrel.StatementBuilder.RunWith(db),
	}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return c, nil
}

func (c *DetailCache) createSchema() error {
	_, err := c.db.Exec(`
	CREATE TABLE IF NOT EXISTS ` + table + ` (
		map_index INTEGER NOT NULL,
		sequence TEXT NOT NULL,
		coverage INTEGER DEFAULT 0,
		parents TEXT DEFAULT '',
		children TEXT DEFAULT '',
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (map_index, sequence)
	)`)
	return err
}

// Close closes the database
func (c *DetailCache) Close() error {
	return c.db.Close()
}

// Put stores or replaces the detail of one element
func (c *DetailCache) Put(mapIndex int, detail api.VertexDetail) error {
	_, err := c.sql.Insert(table).
		Options("OR REPLACE").
		Columns("map_index", "sequence", "coverage", "parents", "children").
		Values(mapIndex, detail.Sequence, detail.Coverage,
			joinSymbols(detail.Parents), joinSymbols(detail.Children)).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to cache %s: %w", detail.Sequence, err)
	}
	return nil
}

// PutAll stores every vertex of a detail reply in one transaction
func (c *DetailCache) PutAll(mapIndex int, details []api.VertexDetail) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	builder := squirrel.StatementBuilder.RunWith(tx)
	for _, detail := range details {
		_, err := builder.Insert(table).
			Options("OR REPLACE").
			Columns("map_index", "sequence", "coverage", "parents", "children").
			Values(mapIndex, detail.Sequence, detail.Coverage,
				joinSymbols(detail.Parents), joinSymbols(detail.Children)).
			Exec()
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to cache %s: %w", detail.Sequence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get loads the detail of one element
func (c *DetailCache) Get(mapIndex int, sequence string) (api.VertexDetail, error) {
	var (
		detail   api.VertexDetail
		parents  string
		children string
	)

	err := c.sql.Select("sequence", "coverage", "parents", "children").
		From(table).
		Where(squirrel.Eq{"map_index": mapIndex, "sequence": sequence}).
		QueryRow().
		Scan(&detail.Sequence, &detail.Coverage, &parents, &children)
	if errors.Is(err, sql.ErrNoRows) {
		return api.VertexDetail{}, fmt.Errorf("%w: %s", ErrNotCached, sequence)
	}
	if err != nil {
		return api.VertexDetail{}, fmt.Errorf("failed to load %s: %w", sequence, err)
	}

	detail.Parents = splitSymbols(parents)
	detail.Children = splitSymbols(children)
	return detail, nil
}

// Count returns the number of cached elements
func (c *DetailCache) Count() (int, error) {
	var n int
	if err := c.sql.Select("COUNT(*)").From(table).QueryRow().Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached elements: %w", err)
	}
	return n, nil
}

// Clear deletes every cached element
func (c *DetailCache) Clear() error {
	if _, err := c.sql.Delete(table).Exec(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// symbolSeparator delimits neighbor symbols in the parents/children columns
const symbolSeparator = ","

func joinSymbols(symbols []string) string {
	return strings.Join(symbols, symbolSeparator)
}

func splitSymbols(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, symbolSeparator)
}
