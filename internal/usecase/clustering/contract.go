package clustering

import (
	"context"

	"github.com/kailas-cloud/entitysearch/internal/domain/query"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/result"
)

// Repository runs the delegate span search. A nil query matches every document.
type Repository interface {
	Search(ctx context.Context, indices []string, q *query.SpanQuery, from, size int) (result.Result, error)
}

// SignatureResolver reports the signature field the named indices were created with.
type SignatureResolver interface {
	SignatureField(ctx context.Context, indices []string) (string, error)
}
