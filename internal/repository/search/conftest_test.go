package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchSpanFn func(ctx context.Context, q *db.SpanSearch) (*db.SearchResult, error)
}

func (m *mockStore) SearchSpan(ctx context.Context, q *db.SpanSearch) (*db.SearchResult, error) {
	if m.searchSpanFn != nil {
		return m.searchSpanFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
