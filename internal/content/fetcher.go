package content

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Fetcher resolves deep page content through a chain of strategies: the
// reader service first, then direct HTML extraction, then an optional
// headless-browser render for pages the direct path cannot read. An error is
// returned only when every enabled strategy has failed; the enrichment layer
// then falls back to the listing snippet.
type Fetcher struct {
	reader         *ReaderClient // nil when the reader service is not configured
	direct         bool
	browser        bool
	browserTimeout time.Duration
	httpClient     *http.Client
	logger         *zap.Logger
}

// FetcherConfig configures the strategy chain.
type FetcherConfig struct {
	Reader         *ReaderClient
	EnableDirect   bool
	EnableBrowser  bool
	BrowserTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// NewFetcher creates a Fetcher. A nil config disables every strategy, which
// is only useful in tests.
func NewFetcher(cfg *FetcherConfig) *Fetcher {
	if cfg == nil {
		cfg = &FetcherConfig{}
	}

	f := &Fetcher{
		reader:         cfg.Reader,
		direct:         cfg.EnableDirect,
		browser:        cfg.EnableBrowser,
		browserTimeout: cfg.BrowserTimeout,
		httpClient:     cfg.HTTPClient,
		logger:         cfg.Logger,
	}
	if f.browserTimeout == 0 {
		f.browserTimeout = DefaultBrowserTimeout
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: DirectFetchTimeout}
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}

	return f
}

// Fetch returns the best available text content for urlStr.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	var lastErr error

	if f.reader != nil {
		text, err := f.reader.Fetch(ctx, urlStr)
		if err == nil && text != "" {
			return text, nil
		}
		lastErr = err
		f.logger.Debug("reader fetch failed, trying fallback",
			zap.String("url", urlStr), zap.Error(err))
	}

	if f.direct {
		text, err := f.fetchDirect(ctx, urlStr)
		if err == nil && text != "" {
			return text, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = &Error{URL: urlStr, Message: "no content strategy available"}
	}
	return "", lastErr
}

// fetchDirect downloads the page and extracts its main text, escalating to
// the headless browser when the result looks like an unrendered SPA shell.
func (f *Fetcher) fetchDirect(ctx context.Context, urlStr string) (string, error) {
	html, err := fetchHTML(ctx, urlStr, f.httpClient)
	if err != nil {
		f.logger.Debug("direct fetch failed", zap.String("url", urlStr), zap.Error(err))
		if !f.browser {
			return "", err
		}
		html = ""
	}

	var text string
	if html != "" {
		text, err = ExtractMainText(html, JobPostingSelectors())
		if err != nil {
			return "", err
		}
		if !needsBrowser(text) {
			return text, nil
		}
	}

	if !f.browser {
		if text != "" {
			return text, nil
		}
		return "", &Error{URL: urlStr, Message: "direct extraction produced no text"}
	}

	rendered, err := renderWithBrowser(ctx, urlStr, f.browserTimeout, f.logger)
	if err != nil {
		// Short direct text still beats nothing.
		if text != "" {
			return text, nil
		}
		return "", err
	}

	renderedText, err := ExtractMainText(rendered, JobPostingSelectors())
	if err != nil {
		return "", err
	}
	if renderedText == "" && text != "" {
		return text, nil
	}
	return renderedText, nil
}
