package websearch

import "context"

// Result is a single web page candidate for template bootstrapping.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`

	Score         *float64 `json:"score,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
}

// Provider defines the contract for any web search backend
type Provider interface {
	// Search returns ranked results for query. An empty slice means nothing was found.
	Search(ctx context.Context, query string) ([]Result, error)
}
