// Package db provides PostgreSQL persistence for searches and their matches.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS resume_digests (
		sha256        TEXT PRIMARY KEY,
		preview       TEXT NOT NULL DEFAULT '',
		first_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS searches (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		query         TEXT NOT NULL,
		location      TEXT NOT NULL DEFAULT '',
		resume_sha256 TEXT REFERENCES resume_digests(sha256),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		search_id     UUID NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		role          TEXT NOT NULL,
		company       TEXT NOT NULL DEFAULT '',
		link          TEXT NOT NULL DEFAULT '',
		score         INTEGER NOT NULL,
		justification TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_search_id ON matches(search_id)`,
	`CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at DESC)`,
}

// EnsureSchema creates the tables and indexes if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
