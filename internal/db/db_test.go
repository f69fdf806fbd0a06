package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResumeDigest(t *testing.T) {
	a := ResumeDigest("golang engineer, 10 years")
	b := ResumeDigest("golang engineer, 10 years")
	c := ResumeDigest("golang engineer, 11 years")

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestResumeDigestEmpty(t *testing.T) {
	// Deterministic even on empty input
	assert.Len(t, ResumeDigest(""), 64)
}

func TestResumePreview(t *testing.T) {
	short := "brief resume"
	assert.Equal(t, short, ResumePreview(short))

	long := strings.Repeat("x", 500)
	preview := ResumePreview(long)
	assert.Len(t, preview, resumePreviewChars)
}

func TestResumePreviewMultibyte(t *testing.T) {
	long := strings.Repeat("é", 300)
	preview := ResumePreview(long)
	// Counted in runes, never split mid-character
	assert.Equal(t, resumePreviewChars, len([]rune(preview)))
	assert.Equal(t, strings.Repeat("é", resumePreviewChars), preview)
}

func TestSchemaStatementsOrdering(t *testing.T) {
	// resume_digests must exist before searches references it,
	// and searches before matches.
	var digests, searches, matches int
	for i, stmt := range schemaStatements {
		switch {
		case strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS resume_digests"):
			digests = i
		case strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS searches"):
			searches = i
		case strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS matches"):
			matches = i
		}
	}
	assert.Less(t, digests, searches)
	assert.Less(t, searches, matches)
}
