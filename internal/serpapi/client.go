// Package serpapi provides the job search provider client and the adaptive
// paginated retriever built on top of it.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the provider's search endpoint.
const DefaultBaseURL = "https://serpapi.com/search.json"

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 30 * time.Second

const (
	engineGoogleJobs = "google_jobs"
	chipPostedToday  = "date_posted:today"
)

// Client talks to the search provider. The base URL and HTTP client are
// injectable so tests can point it at a fake provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientConfig holds optional Client settings.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a provider client. A nil config uses defaults.
func NewClient(apiKey string, cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return c
}

// buildParams assembles one page request. The date restriction is applied in
// strict mode only; the page token is passed through opaque and untouched.
func (c *Client) buildParams(query, location, pageToken string, strict bool) url.Values {
	q := url.Values{}
	q.Set("engine", engineGoogleJobs)
	q.Set("q", query)
	q.Set("location", location)
	q.Set("google_domain", "google.com")
	q.Set("gl", "us")
	q.Set("hl", "en")
	q.Set("api_key", c.apiKey)

	if strict {
		q.Set("chips", chipPostedToday)
	}
	if pageToken != "" {
		q.Set("next_page_token", pageToken)
	}

	return q
}

// doSearch issues a single page request and decodes the response.
func (c *Client) doSearch(ctx context.Context, params url.Values) (*searchResponse, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &sr, nil
}
