package db

import (
	"context"
	"time"
)

// Store is the main backend facade combining all sub-interfaces.
type Store interface {
	Pinger
	IndexManager
	DocumentWriter
	SpanSearcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentItem holds a single document id and its field values.
type DocumentItem struct {
	ID     string
	Fields map[string]string
}

// DocumentWriter stores and removes documents in an index.
type DocumentWriter interface {
	PutDocuments(ctx context.Context, index string, items []DocumentItem) error
	// DeleteDocuments removes ids and reports, per id, whether it existed.
	DeleteDocuments(ctx context.Context, index string, ids []string) ([]bool, error)
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	// SignatureField returns the tag field the index was created with, or ""
	// when it has none.
	SignatureField(ctx context.Context, name string) (string, error)
}

// SpanSearcher executes span queries.
type SpanSearcher interface {
	SearchSpan(ctx context.Context, q *SpanSearch) (*SearchResult, error)
}
