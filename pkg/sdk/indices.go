package entitysearch

import (
	"context"
	"fmt"
	"time"

	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	"github.com/kailas-cloud/entitysearch/internal/domain/index/field"
)

// IndexOption configures index creation.
type IndexOption func(*indexConfig)

type indexConfig struct {
	fields         []string
	signatureField string
}

// WithFields sets the positional text fields: "text" and one field per
// entity type. Defaults to "text" alone.
func WithFields(names ...string) IndexOption {
	return func(c *indexConfig) {
		c.fields = append(c.fields, names...)
	}
}

// WithClusterField overrides the client's signature field for this index.
func WithClusterField(name string) IndexOption {
	return func(c *indexConfig) {
		c.signatureField = name
	}
}

// IndexService manages indices.
type IndexService struct {
	svc            indexUseCase
	signatureField string
	obs            *observer
}

// Create creates an index.
func (s *IndexService) Create(ctx context.Context, name string, opts ...IndexOption) (info IndexInfo, err error) {
	defer func(start time.Time) { s.obs.observe("index.create", start, err) }(time.Now())

	cfg := indexConfig{signatureField: s.signatureField}
	for _, o := range opts {
		o(&cfg)
	}

	idx, err := s.svc.Create(ctx, name, cfg.fields, cfg.signatureField)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}
	return indexToInfo(idx), nil
}

// Drop removes an index and its documents.
func (s *IndexService) Drop(ctx context.Context, name string) (err error) {
	defer func(start time.Time) { s.obs.observe("index.drop", start, err) }(time.Now())

	if err := s.svc.Drop(ctx, name); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Exists reports whether an index exists.
func (s *IndexService) Exists(ctx context.Context, name string) (ok bool, err error) {
	defer func(start time.Time) { s.obs.observe("index.exists", start, err) }(time.Now())

	ok, err = s.svc.Exists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index exists: %w", err)
	}
	return ok, nil
}

func indexToInfo(idx domindex.Index) IndexInfo {
	var fields []string
	for _, f := range idx.Fields() {
		if f.FieldType() == field.Text {
			fields = append(fields, f.Name())
		}
	}
	return IndexInfo{
		Name:           idx.Name(),
		TextFields:     fields,
		SignatureField: idx.SignatureField(),
		CreatedAt:      time.UnixMilli(idx.CreatedAt()).UTC(),
	}
}
