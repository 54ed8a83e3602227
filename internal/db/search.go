package db

import (
	"time"

	"github.com/kailas-cloud/entitysearch/internal/domain/query"
)

// SpanSearch is the input for a span query search.
type SpanSearch struct {
	// Indices to search. Empty means every index the backend knows.
	Indices []string
	// Query is the span query; nil matches every document.
	Query *query.SpanQuery
	From  int
	Size  int
}

// Shards reports how many index partitions took part in a search.
type Shards struct {
	Total      int
	Successful int
	Failed     int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total    int
	Took     time.Duration
	TimedOut bool
	Shards   Shards
	Entries  []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	ID     string
	Index  string
	Score  float64
	Fields map[string]string
}
