package serpapi

import (
	"context"

	"go.uber.org/zap"
)

// SearchJobs retrieves up to limit raw listings for the given query and
// location using token-based pagination.
//
// The first page carries a "posted today" restriction. Job searches often
// come back empty under a strict same-day filter, so an empty restricted
// first page is retried once without the restriction before giving up.
// Provider or transport failures mid-pagination are terminal for the call but
// not for the caller: whatever was accumulated so far is returned.
func (c *Client) SearchJobs(ctx context.Context, query, location string, limit int) []Listing {
	if limit <= 0 {
		return nil
	}

	var all []Listing
	var pageToken string
	strict := true

	c.logger.Debug("starting job search",
		zap.String("query", query),
		zap.String("location", location),
		zap.Int("limit", limit),
	)

	for len(all) < limit {
		resp, err := c.doSearch(ctx, c.buildParams(query, location, pageToken, strict))
		if err != nil {
			c.logger.Warn("job search page failed, returning partial results",
				zap.String("query", query),
				zap.Int("accumulated", len(all)),
				zap.Error(err),
			)
			break
		}

		page := resp.JobsResults
		if len(page) == 0 {
			// Relax the date restriction once if the very first page is empty.
			if strict && pageToken == "" {
				c.logger.Debug("empty first page under today filter, retrying unrestricted")
				strict = false
				continue
			}
			if resp.Error != "" {
				c.logger.Warn("provider reported error", zap.String("error", resp.Error))
			}
			break
		}

		all = append(all, page...)
		c.logger.Debug("fetched listings page",
			zap.Int("page_size", len(page)),
			zap.Int("total", len(all)),
		)

		pageToken = resp.Pagination.NextPageToken
		if pageToken == "" {
			// End of the provider's result set.
			break
		}
	}

	if len(all) > limit {
		all = all[:limit]
	}

	c.logger.Info("job search finished",
		zap.String("query", query),
		zap.Int("listings", len(all)),
	)

	return all
}
