package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"serpapi_api_key": "serp-key",
		"gemini_api_key": "gem-key",
		"search_limit": 25,
		"use_browser": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "serp-key", cfg.SerpAPIKey)
	assert.Equal(t, "gem-key", cfg.GeminiAPIKey)
	assert.Equal(t, 25, cfg.SearchLimit)
	assert.True(t, cfg.UseBrowser)
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	_, err = Load(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("SERPAPI_API_KEY", "serp")
	t.Setenv("JINA_API_KEY", "jina")
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("PORT", "8181")
	t.Setenv("SEARCH_LIMIT", "30")

	cfg := FromEnv()
	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	assert.Equal(t, "serp", cfg.SerpAPIKey)
	assert.Equal(t, "jina", cfg.JinaAPIKey)
	assert.Equal(t, "gem", cfg.GeminiAPIKey)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, 30, cfg.SearchLimit)
}

func TestFromEnv_BadNumbersIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("SEARCH_LIMIT", "")

	cfg := FromEnv()
	assert.Equal(t, 0, cfg.Port)
	assert.Equal(t, 0, cfg.SearchLimit)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9000, SerpAPIKey: "mine"}
	defaults := Config{
		Port:         8080,
		SerpAPIKey:   "theirs",
		GeminiAPIKey: "gem",
		DatabaseURL:  "postgres://localhost/agent",
	}

	merged := cfg.MergeWithDefaults(defaults)
	assert.Equal(t, 9000, merged.Port)           // explicit value wins
	assert.Equal(t, "mine", merged.SerpAPIKey)   // explicit value wins
	assert.Equal(t, "gem", merged.GeminiAPIKey)  // filled from defaults
	assert.Equal(t, "postgres://localhost/agent", merged.DatabaseURL)
	assert.Equal(t, DefaultSearchLimit, merged.SearchLimit) // falls back to package default
}

func TestMergeWithDefaults_BooleansOrTogether(t *testing.T) {
	// A config file enabling the browser must survive merging even when the
	// flag side left it off.
	cfg := Config{Debug: true}
	defaults := Config{UseBrowser: true, LogJSON: true}

	merged := cfg.MergeWithDefaults(defaults)
	assert.True(t, merged.UseBrowser)
	assert.True(t, merged.LogJSON)
	assert.True(t, merged.Debug)

	merged = (&Config{}).MergeWithDefaults(Config{})
	assert.False(t, merged.UseBrowser)
	assert.False(t, merged.LogJSON)
	assert.False(t, merged.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Port: 8080, SerpAPIKey: "s", GeminiAPIKey: "g"}, ""},
		{"bad port", Config{Port: -1, SerpAPIKey: "s", GeminiAPIKey: "g"}, "port"},
		{"negative limit", Config{SearchLimit: -5, SerpAPIKey: "s", GeminiAPIKey: "g"}, "search_limit"},
		{"missing serpapi key", Config{GeminiAPIKey: "g"}, "SERPAPI_API_KEY"},
		{"missing gemini key", Config{SerpAPIKey: "s"}, "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
