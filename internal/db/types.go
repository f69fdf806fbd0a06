package db

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// resumePreviewChars bounds how much resume text is kept alongside the digest.
const resumePreviewChars = 200

// SearchSummary is a search record with its match count
type SearchSummary struct {
	ID         uuid.UUID `json:"id"`
	Query      string    `json:"query"`
	Location   string    `json:"location"`
	CreatedAt  time.Time `json:"created_at"`
	MatchCount int       `json:"match_count"`
}

// MatchRecord is a stored match row
type MatchRecord struct {
	ID            uuid.UUID `json:"id"`
	SearchID      uuid.UUID `json:"search_id"`
	Role          string    `json:"role"`
	Company       string    `json:"company"`
	Link          string    `json:"link"`
	Score         int       `json:"score"`
	Justification string    `json:"justification"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResumeDigest returns the hex SHA-256 of the resume text
func ResumeDigest(resumeText string) string {
	sum := sha256.Sum256([]byte(resumeText))
	return hex.EncodeToString(sum[:])
}

// ResumePreview returns the leading slice of the resume kept for display
func ResumePreview(resumeText string) string {
	runes := []rune(resumeText)
	if len(runes) <= resumePreviewChars {
		return resumeText
	}
	return string(runes[:resumePreviewChars])
}
