package search

import (
	"context"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
	"github.com/kailas-cloud/entitysearch/internal/repository/errmap"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchSpan(ctx context.Context, q *db.SpanSearch) (*db.SearchResult, error)
}

// Repo implements usecase/clustering.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search runs a span query (nil matches everything) and converts backend
// entries into hits in backend order.
func (r *Repo) Search(
	ctx context.Context, indices []string, q *query.SpanQuery, from, size int,
) (result.Result, error) {
	sr, err := r.store.SearchSpan(ctx, &db.SpanSearch{
		Indices: indices,
		Query:   q,
		From:    from,
		Size:    size,
	})
	if err != nil {
		return result.Result{}, errmap.Wrap("search", err)
	}

	hits := make([]cluster.Hit, len(sr.Entries))
	for i, e := range sr.Entries {
		hits[i] = cluster.Hit{
			ID:     e.ID,
			Index:  e.Index,
			Score:  e.Score,
			Fields: e.Fields,
		}
	}

	return result.Result{
		Meta: result.Meta{
			Took:     sr.Took,
			TimedOut: sr.TimedOut,
			Shards: result.Shards{
				Total:      sr.Shards.Total,
				Successful: sr.Shards.Successful,
				Failed:     sr.Shards.Failed,
			},
			Total: sr.Total,
		},
		Hits: hits,
	}, nil
}
