package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TitleCache persists translated titles keyed by identifier, so repeat runs
// over the same library do not re-translate.
type TitleCache struct {
	db *sql.DB
}

// NewTitleCache creates a title cache backed by the given database.
func NewTitleCache(db *sql.DB) *TitleCache {
	return &TitleCache{db: db}
}

// Get returns the cached title for an identifier, or ("", false) on miss.
func (c *TitleCache) Get(ctx context.Context, number string) (string, bool, error) {
	var title string
	err := c.db.QueryRowContext(ctx,
		`SELECT title FROM title_cache WHERE number = ?`, number).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading title cache: %w", err)
	}
	return title, true, nil
}

// Put stores or replaces the cached title for an identifier.
func (c *TitleCache) Put(ctx context.Context, number, title string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO title_cache (number, title) VALUES (?, ?)
		 ON CONFLICT(number) DO UPDATE SET title = excluded.title, updated_at = CURRENT_TIMESTAMP`,
		number, title)
	if err != nil {
		return fmt.Errorf("writing title cache: %w", err)
	}
	return nil
}
