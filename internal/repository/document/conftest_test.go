package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	putFn    func(ctx context.Context, index string, items []db.DocumentItem) error
	deleteFn func(ctx context.Context, index string, ids []string) ([]bool, error)
}

func (m *mockStore) PutDocuments(ctx context.Context, index string, items []db.DocumentItem) error {
	if m.putFn != nil {
		return m.putFn(ctx, index, items)
	}
	return nil
}

func (m *mockStore) DeleteDocuments(ctx context.Context, index string, ids []string) ([]bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, ids)
	}
	return make([]bool, len(ids)), nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
