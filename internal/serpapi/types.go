package serpapi

// Listing is a raw job record as returned by the provider's google_jobs
// engine. It is read-only downstream of retrieval.
type Listing struct {
	Title        string        `json:"title"`
	CompanyName  string        `json:"company_name"`
	Location     string        `json:"location,omitempty"`
	Description  string        `json:"description,omitempty"`
	ApplyLink    string        `json:"apply_link,omitempty"`
	RelatedLinks []RelatedLink `json:"related_links,omitempty"`
	ShareLink    string        `json:"share_link,omitempty"`
}

// RelatedLink is a secondary link attached to a listing (job board mirrors,
// company pages and the like).
type RelatedLink struct {
	Link string `json:"link"`
	Text string `json:"text,omitempty"`
}

// searchResponse is the wire shape of one result page.
type searchResponse struct {
	JobsResults []Listing  `json:"jobs_results"`
	Pagination  pagination `json:"serpapi_pagination"`
	Error       string     `json:"error,omitempty"`
}

type pagination struct {
	NextPageToken string `json:"next_page_token,omitempty"`
}
