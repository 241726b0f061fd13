package ports

import "context"

// SearchResult is one organic web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher runs web searches on behalf of a model-backed Generator.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
