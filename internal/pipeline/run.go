// Package pipeline coordinates the enrichment fan-out over retrieved
// listings and persists the surviving matches.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-search-agent/internal/enrich"
	"github.com/jonathan/job-search-agent/internal/serpapi"
)

// maxConcurrentEnrichments caps in-flight enrichment calls per search. Both
// the content reader and the scoring service are rate limited; the cap is a
// hard ceiling shared by the whole batch, not a per-call knob.
const maxConcurrentEnrichments = 10

// SearchRequest is the immutable input for one pipeline run.
type SearchRequest struct {
	Roles      string
	Country    string
	ResumeText string
}

// Enricher evaluates one listing; nil means the listing did not survive.
type Enricher interface {
	Enrich(ctx context.Context, resumeText string, listing serpapi.Listing) *enrich.Match
}

// Store is the durable record of a search and its matches.
type Store interface {
	CreateSearch(ctx context.Context, query, location, resumeText string) (uuid.UUID, error)
	AddMatch(ctx context.Context, searchID uuid.UUID, m enrich.Match) error
}

// Coordinator runs the bounded enrichment fan-out.
type Coordinator struct {
	enricher Enricher
	store    Store
	logger   *zap.Logger
}

// NewCoordinator creates a Coordinator. A nil store disables persistence,
// which the CLI uses for dry runs.
func NewCoordinator(enricher Enricher, store Store, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{enricher: enricher, store: store, logger: log}
}

// Run enriches every listing under the concurrency cap, drops the ones that
// did not survive, sorts the rest by descending score, and persists the
// outcome. It returns only after every listing has been attempted; there is
// no partial streaming.
//
// Per-listing failures are absorbed inside the Enricher. The only errors Run
// reports are persistence failures, after the batch has been computed.
func (c *Coordinator) Run(ctx context.Context, req SearchRequest, listings []serpapi.Listing) ([]enrich.Match, error) {
	if len(listings) == 0 {
		return []enrich.Match{}, nil
	}

	c.logger.Info("starting enrichment batch",
		zap.Int("listings", len(listings)),
		zap.Int("max_concurrent", maxConcurrentEnrichments),
	)

	// Each slot in results is owned by exactly one goroutine; the index
	// addressing removes any need for a lock.
	results := make([]*enrich.Match, len(listings))

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentEnrichments)
	for i, listing := range listings {
		g.Go(func() error {
			results[i] = c.enricher.Enrich(ctx, req.ResumeText, listing)
			return nil
		})
	}
	_ = g.Wait() // enrichment goroutines never return errors

	matches := make([]enrich.Match, 0, len(results))
	for _, m := range results {
		if m != nil {
			matches = append(matches, *m)
		}
	}

	// Ties keep first-seen order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	c.logger.Info("enrichment batch finished",
		zap.Int("listings", len(listings)),
		zap.Int("strong_matches", len(matches)),
	)

	if c.store != nil {
		if err := c.persist(ctx, req, matches); err != nil {
			return nil, err
		}
	}

	return matches, nil
}

// persist writes one search record, then its match records, sequentially.
func (c *Coordinator) persist(ctx context.Context, req SearchRequest, matches []enrich.Match) error {
	searchID, err := c.store.CreateSearch(ctx, req.Roles, req.Country, req.ResumeText)
	if err != nil {
		return fmt.Errorf("save search: %w", err)
	}

	for _, m := range matches {
		if err := c.store.AddMatch(ctx, searchID, m); err != nil {
			return fmt.Errorf("save match %q: %w", m.Role, err)
		}
	}

	c.logger.Debug("saved search results",
		zap.String("search_id", searchID.String()),
		zap.Int("matches", len(matches)),
	)
	return nil
}
