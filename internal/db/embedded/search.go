package embedded

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
)

// SearchSpan runs q on every requested index. Span queries select candidates
// with a conjunction of per-clause term queries and keep those whose term
// locations satisfy the span constraint; Total counts the kept candidates.
func (s *Store) SearchSpan(ctx context.Context, q *db.SpanSearch) (*db.SearchResult, error) {
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, db.ErrClosed
	}

	names := q.Indices
	if len(names) == 0 {
		names = s.names()
	}

	result := &db.SearchResult{Shards: db.Shards{Total: len(names)}}
	if q.Query != nil && (q.Query.IsEmpty() || q.Query.HasEmptyTerm()) {
		result.Shards.Successful = len(names)
		result.Entries = []db.SearchEntry{}
		result.Took = time.Since(start)
		return result, nil
	}

	parts := make([][]db.SearchEntry, 0, len(names))
	for _, name := range names {
		idx, err := s.index(name)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", name, err)
		}
		entries, total, err := s.searchIndex(ctx, idx, name, q)
		if err != nil {
			return nil, err
		}
		parts = append(parts, entries)
		result.Total += total
		result.Shards.Successful++
	}

	result.Entries = db.Page(db.MergeEntries(parts), q.From, q.Size)
	result.Took = time.Since(start)
	return result, nil
}

func (s *Store) searchIndex(
	ctx context.Context, idx bleve.Index, name string, q *db.SpanSearch,
) ([]db.SearchEntry, int, error) {
	var req *bleve.SearchRequest
	if q.Query == nil {
		req = bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), q.From+q.Size, 0, false)
	} else {
		req = bleve.NewSearchRequestOptions(conjunction(q.Query), s.maxCandidates, 0, false)
		req.IncludeLocations = true
	}
	req.SortBy([]string{"-_score", "_id"})
	req.Fields = []string{"*"}

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, &db.Error{Op: db.OpQuery, Err: fmt.Errorf("index %s: %w", name, err)}
	}

	entries := make([]db.SearchEntry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if q.Query != nil && !db.MatchSpan(q.Query, locationPositions(hit)) {
			continue
		}
		entries = append(entries, db.SearchEntry{
			ID:     hit.ID,
			Index:  name,
			Score:  hit.Score,
			Fields: stringFields(hit.Fields),
		})
	}

	if q.Query == nil {
		return entries, int(res.Total), nil
	}
	return entries, len(entries), nil
}

func conjunction(q *query.SpanQuery) bquery.Query {
	terms := make([]bquery.Query, len(q.Clauses))
	for i, c := range q.Clauses {
		tq := bleve.NewTermQuery(c.Term())
		tq.SetField(c.PositionField())
		terms[i] = tq
	}
	return bleve.NewConjunctionQuery(terms...)
}

// locationPositions reads positions from hit term locations. Bleve positions
// are 1-based; only their differences matter.
func locationPositions(hit *search.DocumentMatch) db.PositionFunc {
	return func(field, term string) []int {
		locs := hit.Locations[field][term]
		out := make([]int, 0, len(locs))
		for _, l := range locs {
			out = append(out, int(l.Pos))
		}
		sort.Ints(out)
		return out
	}
}

// stringFields keeps scalar stored values. Multi-valued fields are dropped.
func stringFields(fields map[string]interface{}) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch tv := v.(type) {
		case string:
			out[k] = tv
		case float64:
			out[k] = strconv.FormatFloat(tv, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(tv)
		}
	}
	return out
}
