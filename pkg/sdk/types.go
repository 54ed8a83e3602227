package entitysearch

import "time"

// IndexInfo describes an index.
type IndexInfo struct {
	Name           string
	TextFields     []string
	SignatureField string
	CreatedAt      time.Time
}

// Document is a flat document. Fields holds the positional text fields and
// the signature field. An empty ID is generated on indexing.
type Document struct {
	ID     string
	Fields map[string]string
}

// BatchResult is the outcome of one item in a batch operation.
type BatchResult struct {
	ID  string
	OK  bool
	Err error
}

// Hit is a single search hit.
type Hit struct {
	Index  string
	ID     string
	Score  float64
	Fields map[string]string
}

// Cluster groups hit ids sharing a signature. Absent is set for the cluster
// of hits without the signature field; Name is empty then.
type Cluster struct {
	Name    string
	Absent  bool
	Members []string
}

// SearchResult is the delegate search page with its ranked clusters.
type SearchResult struct {
	Took     time.Duration
	TimedOut bool
	Total    int
	Hits     []Hit
	Clusters []Cluster
}
