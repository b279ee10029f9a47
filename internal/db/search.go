package db

import "github.com/zxpress/fcsgate/internal/domain/search/filter"

// TextQuery is the input for a relevance-ordered full-text search.
// Query is a raw engine expression; Filters are ANDed onto it unscored.
type TextQuery struct {
	IndexName string
	Query     string
	Filters   filter.Expression
	TopK      int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key   string
	Score float64
}

// Keys returns hit keys in result order.
func (r *SearchResult) Keys() []string {
	keys := make([]string, len(r.Entries))
	for i := range r.Entries {
		keys[i] = r.Entries[i].Key
	}
	return keys
}
