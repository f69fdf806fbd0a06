package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider scripts one response per incoming request and records the
// query parameters it saw.
type fakeProvider struct {
	t         *testing.T
	responses []any // searchResponse, or an int HTTP status for failures
	requests  []url.Values
}

func (f *fakeProvider) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, r.URL.Query())

		if len(f.responses) == 0 {
			f.t.Fatalf("unexpected request #%d", len(f.requests))
		}
		next := f.responses[0]
		f.responses = f.responses[1:]

		if status, ok := next.(int); ok {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(next)
	}
}

func page(count int, nextToken string) searchResponse {
	listings := make([]Listing, count)
	for i := range listings {
		listings[i] = Listing{
			Title:       fmt.Sprintf("Engineer %d", i),
			CompanyName: "Acme",
			ApplyLink:   fmt.Sprintf("https://jobs.example.com/%d", i),
		}
	}
	return searchResponse{
		JobsResults: listings,
		Pagination:  pagination{NextPageToken: nextToken},
	}
}

func newTestClient(t *testing.T, f *fakeProvider) *Client {
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient("test-key", &ClientConfig{BaseURL: srv.URL})
}

func TestSearchJobs_ZeroLimitIssuesNoRequest(t *testing.T) {
	f := &fakeProvider{t: t}
	c := newTestClient(t, f)

	got := c.SearchJobs(context.Background(), "go developer", "Germany", 0)
	assert.Empty(t, got)
	assert.Empty(t, f.requests)
}

func TestSearchJobs_PaginatesAndTruncatesToLimit(t *testing.T) {
	f := &fakeProvider{t: t, responses: []any{
		page(4, "tok-1"),
		page(4, "tok-2"),
	}}
	c := newTestClient(t, f)

	got := c.SearchJobs(context.Background(), "go developer", "Germany", 6)
	assert.Len(t, got, 6)
	require.Len(t, f.requests, 2)

	// Round one is date-restricted and unpaged; round two carries the token.
	assert.Equal(t, "date_posted:today", f.requests[0].Get("chips"))
	assert.Empty(t, f.requests[0].Get("next_page_token"))
	assert.Equal(t, "tok-1", f.requests[1].Get("next_page_token"))
	assert.Equal(t, "google_jobs", f.requests[0].Get("engine"))
}

func TestSearchJobs_EmptyFirstPageRetriesUnrestrictedOnce(t *testing.T) {
	f := &fakeProvider{t: t, responses: []any{
		page(0, ""),
		page(5, ""),
	}}
	c := newTestClient(t, f)

	got := c.SearchJobs(context.Background(), "go developer", "Germany", 50)
	assert.Len(t, got, 5)
	require.Len(t, f.requests, 2)

	assert.Equal(t, "date_posted:today", f.requests[0].Get("chips"))
	assert.Empty(t, f.requests[1].Get("chips"))
	assert.Empty(t, f.requests[1].Get("next_page_token"))
}

func TestSearchJobs_EmptyAfterRelaxedRetryStops(t *testing.T) {
	f := &fakeProvider{t: t, responses: []any{
		page(0, ""),
		searchResponse{Error: "Google Jobs hasn't returned any results"},
	}}
	c := newTestClient(t, f)

	got := c.SearchJobs(context.Background(), "underwater basket weaver", "Atlantis", 50)
	assert.Empty(t, got)
	assert.Len(t, f.requests, 2)
}

func TestSearchJobs_StopsWithoutNextPageToken(t *testing.T) {
	f := &fakeProvider{t: t, responses: []any{
		page(3, ""),
	}}
	c := newTestClient(t, f)

	got := c.SearchJobs(context.Background(), "go developer", "Germany", 50)
	assert.Len(t, got, 3)
	assert.Len(t, f.requests, 1)
}

func TestSearchJobs_ProviderErrorMidPaginationReturnsPartial(t *testing.T) {
	f := &fakeProvider{t: t, responses: []any{
		page(4, "tok-1"),
		http.StatusInternalServerError,
	}}
	c := newTestClient(t, f)

	got := c.SearchJobs(context.Background(), "go developer", "Germany", 50)
	assert.Len(t, got, 4)
	assert.Len(t, f.requests, 2)
}

func TestSearchJobs_EmptyLaterPageWithTokenStops(t *testing.T) {
	// A later empty page stops retrieval outright; the relaxed retry only
	// applies to the very first page.
	f := &fakeProvider{t: t, responses: []any{
		page(2, "tok-1"),
		page(0, "tok-2"),
	}}
	c := newTestClient(t, f)

	got := c.SearchJobs(context.Background(), "go developer", "Germany", 50)
	assert.Len(t, got, 2)
	assert.Len(t, f.requests, 2)
}
