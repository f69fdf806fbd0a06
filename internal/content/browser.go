package content

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// minDirectTextLength is the minimum extracted text length to consider the
// direct HTTP path successful. Anything shorter is likely a JavaScript
// rendered job board that served an empty shell.
const minDirectTextLength = 500

// DefaultBrowserTimeout bounds a headless-browser render.
const DefaultBrowserTimeout = 30 * time.Second

// needsBrowser reports whether extracted text is too short to be a real job
// description.
func needsBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < minDirectTextLength
}

// renderWithBrowser loads the page in a headless browser and returns the
// rendered HTML. Requires Chrome/Chromium on the host.
func renderWithBrowser(ctx context.Context, urlStr string, timeout time.Duration, logger *zap.Logger) (string, error) {
	logger.Debug("rendering page in headless browser", zap.String("url", urlStr))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		// Give client-side rendering a moment to fill the page in.
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}

	return html, nil
}
