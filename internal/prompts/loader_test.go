package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("matching.json", "score-job-match")
	require.NoError(t, err)
	assert.Contains(t, prompt, "expert recruiter")
	assert.Contains(t, prompt, "{{.JobTitle}}")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get("matching.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	out := Format("Role: {{.JobTitle}} / Resume: {{.Resume}}", map[string]string{
		"JobTitle": "Go Engineer",
		"Resume":   "ten years of Go",
	})
	assert.Equal(t, "Role: Go Engineer / Resume: ten years of Go", out)
}

func TestFormat_MissingKeysLeftIntact(t *testing.T) {
	out := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", out)
}
