// Package enrich turns raw job listings into scored match results. For one
// listing it resolves a canonical application link, fetches deep page content
// with a snippet fallback, scores the fit against the resume, and applies the
// match threshold.
package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/job-search-agent/internal/llm"
	"github.com/jonathan/job-search-agent/internal/serpapi"
)

// MatchThreshold is the minimum score for a listing to count as a strong
// match. Listings below it are dropped.
const MatchThreshold = 70

// Match is one surviving listing with its score. Created here, persisted by
// the pipeline, never mutated.
type Match struct {
	Role          string `json:"role"`
	Company       string `json:"company"`
	Link          string `json:"link"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// ContentFetcher resolves deep page content for a listing link.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Scorer evaluates resume/job fit. Implementations absorb their own failures
// into a zero score.
type Scorer interface {
	Score(ctx context.Context, resumeText, jobContent, jobTitle string) llm.ScoreResult
}

// Enricher evaluates single listings. Safe for concurrent use: it holds no
// per-listing state.
type Enricher struct {
	fetcher ContentFetcher
	scorer  Scorer
	logger  *zap.Logger
}

// NewEnricher creates an Enricher. A nil logger is replaced with a nop.
func NewEnricher(fetcher ContentFetcher, scorer Scorer, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{fetcher: fetcher, scorer: scorer, logger: log}
}

// ResolveLink picks the canonical application link for a listing: the
// explicit apply link first, then the first related link, then the generic
// share link. Empty means the listing has no usable link.
func ResolveLink(listing serpapi.Listing) string {
	if listing.ApplyLink != "" {
		return listing.ApplyLink
	}
	if len(listing.RelatedLinks) > 0 && listing.RelatedLinks[0].Link != "" {
		return listing.RelatedLinks[0].Link
	}
	return listing.ShareLink
}

// Enrich evaluates one listing against the resume. It returns nil when the
// listing has no usable link or scores below the threshold. All per-listing
// failures are absorbed here; Enrich never reports an error upward.
func (e *Enricher) Enrich(ctx context.Context, resumeText string, listing serpapi.Listing) *Match {
	link := ResolveLink(listing)
	if link == "" {
		e.logger.Debug("skipping listing without link", zap.String("title", listing.Title))
		return nil
	}

	jobContent, err := e.fetcher.Fetch(ctx, link)
	if err != nil || jobContent == "" {
		// Degrade to the snippet, which may itself be empty.
		e.logger.Debug("content fetch failed, using snippet",
			zap.String("title", listing.Title),
			zap.Error(err),
		)
		jobContent = listing.Description
	}

	result := e.scorer.Score(ctx, resumeText, jobContent, listing.Title)
	if result.Score < MatchThreshold {
		e.logger.Debug("listing below threshold",
			zap.String("title", listing.Title),
			zap.Int("score", result.Score),
		)
		return nil
	}

	e.logger.Info("found strong match",
		zap.String("title", listing.Title),
		zap.String("company", listing.CompanyName),
		zap.Int("score", result.Score),
	)

	return &Match{
		Role:          listing.Title,
		Company:       listing.CompanyName,
		Link:          link,
		Score:         result.Score,
		Justification: result.Justification,
	}
}
