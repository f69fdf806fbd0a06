// Package content resolves deep job-page content for enrichment. The primary
// path goes through a reader service that turns any URL into clean markdown;
// fallbacks cover direct HTML extraction and headless-browser rendering.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultReaderBaseURL is the public endpoint of the Jina reader service.
const DefaultReaderBaseURL = "https://r.jina.ai"

// ReaderTimeout bounds a single reader call. Job pages that take longer than
// this are not worth waiting for; the caller degrades to the listing snippet.
const ReaderTimeout = 10 * time.Second

// ReaderClient fetches a URL through the reader service, which returns the
// page body as markdown.
type ReaderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// ReaderConfig holds optional ReaderClient settings.
type ReaderConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewReaderClient creates a reader client. A nil config uses defaults; the
// API key may be empty for anonymous (rate-limited) access.
func NewReaderClient(apiKey string, cfg *ReaderConfig) *ReaderClient {
	if cfg == nil {
		cfg = &ReaderConfig{}
	}

	r := &ReaderClient{
		baseURL:    cfg.BaseURL,
		apiKey:     apiKey,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if r.baseURL == "" {
		r.baseURL = DefaultReaderBaseURL
	}
	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: ReaderTimeout}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	return r
}

// Fetch retrieves the markdown rendering of the page at urlStr. Non-200
// responses and transport failures are returned as errors; the caller decides
// how to degrade.
func (r *ReaderClient) Fetch(ctx context.Context, urlStr string) (string, error) {
	readerURL := strings.TrimSuffix(r.baseURL, "/") + "/" + urlStr

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, readerURL, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "create reader request", Cause: err}
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}
	req.Header.Set("X-Target-Selector", "body")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "reader request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "read reader response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("reader service returned non-200",
			zap.String("url", urlStr),
			zap.Int("status", resp.StatusCode),
		)
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("reader status %d", resp.StatusCode)}
	}

	return string(body), nil
}
