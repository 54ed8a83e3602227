package index

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	"github.com/kailas-cloud/entitysearch/internal/domain/index/field"
)

// Service manages index lifecycle.
type Service struct {
	repo Repository
}

// New creates an index service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the schema and creates the index. textFields are the
// positional fields ("text" and the entity fields); signatureField is stored
// as an exact-match tag. Both default when empty.
func (s *Service) Create(
	ctx context.Context, name string, textFields []string, signatureField string,
) (domindex.Index, error) {
	var errs error
	fields := make([]field.Field, 0, len(textFields))
	for _, n := range textFields {
		if n == signatureField {
			continue
		}
		f, err := field.New(n, field.Text)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fields = append(fields, f)
	}
	if errs != nil {
		return domindex.Index{}, domain.NewValidationError(errs)
	}

	idx, err := domindex.New(name, fields, signatureField)
	if err != nil {
		return domindex.Index{}, domain.NewValidationError(err)
	}

	if err := s.repo.Create(ctx, idx); err != nil {
		return domindex.Index{}, fmt.Errorf("create index: %w", err)
	}
	return idx, nil
}

// Drop removes the index and its documents.
func (s *Service) Drop(ctx context.Context, name string) error {
	if err := s.repo.Drop(ctx, name); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Exists reports whether the index exists.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := s.repo.Exists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index exists: %w", err)
	}
	return ok, nil
}

// SignatureField returns the signature field shared by the named indices.
// It is "" when names is empty or the indices disagree.
func (s *Service) SignatureField(ctx context.Context, names []string) (string, error) {
	var out string
	for i, name := range names {
		f, err := s.repo.SignatureField(ctx, name)
		if err != nil {
			return "", fmt.Errorf("signature field: %w", err)
		}
		if i > 0 && f != out {
			return "", nil
		}
		out = f
	}
	return out, nil
}
