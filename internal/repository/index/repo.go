package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/db"
	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	"github.com/kailas-cloud/entitysearch/internal/domain/index/field"
	"github.com/kailas-cloud/entitysearch/internal/repository/errmap"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SignatureField(ctx context.Context, name string) (string, error)
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create builds the backend definition from the schema and creates the index.
func (r *Repo) Create(ctx context.Context, idx domindex.Index) error {
	def, err := buildIndex(idx)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	return errmap.Wrap("create index "+idx.Name(), r.store.CreateIndex(ctx, def))
}

// Drop removes an index and its documents.
func (r *Repo) Drop(ctx context.Context, name string) error {
	return errmap.Wrap("drop index "+name, r.store.DropIndex(ctx, name))
}

// Exists reports whether the index exists.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, errmap.Wrap("index exists "+name, err)
	}
	return ok, nil
}

// SignatureField returns the tag field the index was created with.
func (r *Repo) SignatureField(ctx context.Context, name string) (string, error) {
	f, err := r.store.SignatureField(ctx, name)
	if err != nil {
		return "", errmap.Wrap("signature field "+name, err)
	}
	return f, nil
}

// buildIndex creates an IndexDefinition from the domain schema.
// Text fields are positional; tag fields are exact-match and case sensitive.
func buildIndex(idx domindex.Index) (*db.IndexDefinition, error) {
	b := db.NewIndex(idx.Name())
	for _, f := range idx.Fields() {
		switch f.FieldType() {
		case field.Text:
			b.Text(f.Name())
		case field.Tag:
			b.Tag(f.Name())
		default:
			return nil, fmt.Errorf("unknown field type: %s", f.FieldType())
		}
	}
	return b.Build()
}
