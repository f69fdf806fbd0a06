package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-search-agent/internal/enrich"
)

// CreateSearch records a search and returns its ID. The resume text itself is
// never stored: only its digest and a short preview land in resume_digests.
func (db *DB) CreateSearch(ctx context.Context, query, location, resumeText string) (uuid.UUID, error) {
	var digest *string
	if resumeText != "" {
		sum := ResumeDigest(resumeText)
		_, err := db.pool.Exec(ctx,
			`INSERT INTO resume_digests (sha256, preview)
			 VALUES ($1, $2)
			 ON CONFLICT (sha256) DO NOTHING`,
			sum, ResumePreview(resumeText),
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to record resume digest: %w", err)
		}
		digest = &sum
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO searches (query, location, resume_sha256)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		query, location, digest,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create search: %w", err)
	}
	return id, nil
}

// AddMatch stores a single match under a search
func (db *DB) AddMatch(ctx context.Context, searchID uuid.UUID, m enrich.Match) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO matches (search_id, role, company, link, score, justification)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		searchID, m.Role, m.Company, m.Link, m.Score, m.Justification,
	)
	if err != nil {
		return fmt.Errorf("failed to add match %s: %w", m.Role, err)
	}
	return nil
}

// GetSearch retrieves a search by ID, or nil when it does not exist
func (db *DB) GetSearch(ctx context.Context, searchID uuid.UUID) (*SearchSummary, error) {
	var s SearchSummary
	err := db.pool.QueryRow(ctx,
		`SELECT s.id, s.query, s.location, s.created_at,
		        (SELECT COUNT(*) FROM matches m WHERE m.search_id = s.id)
		 FROM searches s WHERE s.id = $1`,
		searchID,
	).Scan(&s.ID, &s.Query, &s.Location, &s.CreatedAt, &s.MatchCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get search: %w", err)
	}
	return &s, nil
}

// ListRecentSearches retrieves recent searches with their match counts
func (db *DB) ListRecentSearches(ctx context.Context, limit int) ([]SearchSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.query, s.location, s.created_at, COUNT(m.id)
		 FROM searches s
		 LEFT JOIN matches m ON m.search_id = s.id
		 GROUP BY s.id
		 ORDER BY s.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close()

	var searches []SearchSummary
	for rows.Next() {
		var s SearchSummary
		if err := rows.Scan(&s.ID, &s.Query, &s.Location, &s.CreatedAt, &s.MatchCount); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		searches = append(searches, s)
	}
	return searches, nil
}

// ListMatches retrieves the matches for a search, best score first
func (db *DB) ListMatches(ctx context.Context, searchID uuid.UUID) ([]MatchRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, search_id, role, company, link, score, justification, created_at
		 FROM matches
		 WHERE search_id = $1
		 ORDER BY score DESC, created_at ASC`,
		searchID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.ID, &m.SearchID, &m.Role, &m.Company, &m.Link, &m.Score, &m.Justification, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// DeleteSearch deletes a search and its matches (via cascade)
func (db *DB) DeleteSearch(ctx context.Context, searchID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM searches WHERE id = $1`, searchID)
	if err != nil {
		return fmt.Errorf("failed to delete search: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("search not found: %s", searchID)
	}
	return nil
}
