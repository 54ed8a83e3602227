package result

import (
	"time"

	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
)

// Shards reports how many index partitions answered the delegate search.
type Shards struct {
	Total      int
	Successful int
	Failed     int
}

// Meta is the delegate search metadata passed through to the response.
type Meta struct {
	Took     time.Duration
	TimedOut bool
	Shards   Shards
	// Total is the number of matching documents, which may exceed len(Hits).
	Total int
}

// Result is the outcome of a delegate search.
type Result struct {
	Meta Meta
	Hits []cluster.Hit
}
