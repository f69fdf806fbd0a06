// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultSearchLimit is the maximum number of raw listings retrieved per search.
const DefaultSearchLimit = 50

// Config represents the service configuration. Values can come from a JSON
// file, environment variables, or CLI flags; flags win, then file, then env.
// All fields are optional here; required keys are checked by Validate.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`

	// External services
	SerpAPIKey   string `json:"serpapi_api_key,omitempty"`
	JinaAPIKey   string `json:"jina_api_key,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`

	// Behavior
	SystemPrompt string `json:"system_prompt,omitempty"` // greeting persona
	SearchLimit  int    `json:"search_limit,omitempty"`  // max raw listings per search
	UseBrowser   bool   `json:"use_browser,omitempty"`   // headless browser fallback for SPA job boards
	LogJSON      bool   `json:"log_json,omitempty"`
	Debug        bool   `json:"debug,omitempty"`
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Callers are expected to
// have loaded a .env file beforehand if they want one.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SerpAPIKey:   os.Getenv("SERPAPI_API_KEY"),
		JinaAPIKey:   os.Getenv("JINA_API_KEY"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		SystemPrompt: os.Getenv("SYSTEM_PROMPT"),
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("SEARCH_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			cfg.SearchLimit = limit
		}
	}

	return cfg
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Booleans merge with OR: sources can only switch a feature on,
// which keeps an explicit `"use_browser": true` in a config file effective
// even when the flag was left off.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.LogJSON = result.LogJSON || defaults.LogJSON
	result.Debug = result.Debug || defaults.Debug

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SerpAPIKey == "" {
		result.SerpAPIKey = defaults.SerpAPIKey
	}
	if result.JinaAPIKey == "" {
		result.JinaAPIKey = defaults.JinaAPIKey
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.SystemPrompt == "" {
		result.SystemPrompt = defaults.SystemPrompt
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SearchLimit == 0 {
		if defaults.SearchLimit > 0 {
			result.SearchLimit = defaults.SearchLimit
		} else {
			result.SearchLimit = DefaultSearchLimit
		}
	}

	return result
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in [0, 65535]")
	}
	if c.SearchLimit < 0 {
		return fmt.Errorf("config error: 'search_limit' must be non-negative")
	}
	if c.SerpAPIKey == "" {
		return fmt.Errorf("config error: SERPAPI_API_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	return nil
}
