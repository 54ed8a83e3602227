package index

import (
	"context"

	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
)

// Repository defines the storage contract for indices.
type Repository interface {
	Create(ctx context.Context, idx domindex.Index) error
	Drop(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	SignatureField(ctx context.Context, name string) (string, error)
}
