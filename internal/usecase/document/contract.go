package document

import (
	"context"

	domdoc "github.com/kailas-cloud/entitysearch/internal/domain/document"
)

// Repository writes and deletes documents in bulk.
type Repository interface {
	PutBatch(ctx context.Context, index string, docs []domdoc.Document) error
	DeleteBatch(ctx context.Context, index string, ids []string) ([]bool, error)
}

// IndexChecker checks index existence before writes.
type IndexChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}
