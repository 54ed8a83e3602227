package document

import (
	"context"

	"github.com/kailas-cloud/entitysearch/internal/db"
	domdoc "github.com/kailas-cloud/entitysearch/internal/domain/document"
	"github.com/kailas-cloud/entitysearch/internal/repository/errmap"
)

// store is the consumer interface for documents (ISP).
type store interface {
	PutDocuments(ctx context.Context, index string, items []db.DocumentItem) error
	DeleteDocuments(ctx context.Context, index string, ids []string) ([]bool, error)
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// PutBatch writes documents to index in one backend round-trip.
func (r *Repo) PutBatch(ctx context.Context, index string, docs []domdoc.Document) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.DocumentItem, len(docs))
	for i := range docs {
		items[i] = db.DocumentItem{ID: docs[i].ID(), Fields: docs[i].Fields()}
	}
	return errmap.Wrap("put documents "+index, r.store.PutDocuments(ctx, index, items))
}

// DeleteBatch removes ids from index and reports, per id, whether it existed.
func (r *Repo) DeleteBatch(ctx context.Context, index string, ids []string) ([]bool, error) {
	existed, err := r.store.DeleteDocuments(ctx, index, ids)
	if err != nil {
		return nil, errmap.Wrap("delete documents "+index, err)
	}
	return existed, nil
}
