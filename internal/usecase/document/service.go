package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/entitysearch/internal/domain"
	dombatch "github.com/kailas-cloud/entitysearch/internal/domain/batch"
	domdoc "github.com/kailas-cloud/entitysearch/internal/domain/document"
	"github.com/kailas-cloud/entitysearch/internal/logger"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
)

// MaxBatchSize is the default maximum number of items per batch request.
const MaxBatchSize = 500

// Item is an unvalidated document in a bulk request. An empty ID is generated.
type Item struct {
	ID     string
	Fields map[string]string
}

// Service handles bulk document writes with per-item results.
type Service struct {
	repo         Repository
	indices      IndexChecker
	maxBatchSize int
	newID        func() string
}

// New creates a document service.
func New(repo Repository, indices IndexChecker) *Service {
	return &Service{
		repo:         repo,
		indices:      indices,
		maxBatchSize: MaxBatchSize,
		newID:        uuid.NewString,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Index validates items and writes the valid ones to index in one batch.
// Results are in item order.
func (s *Service) Index(ctx context.Context, index string, items []Item) []dombatch.Result {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
		if ids[i] == "" {
			ids[i] = s.newID()
		}
	}

	if err := s.precheck(ctx, index, len(items)); err != nil {
		results := dombatch.FailAll(ids, err)
		record("index", results)
		return results
	}

	results := make([]dombatch.Result, len(items))
	valid := make([]domdoc.Document, 0, len(items))
	validIdx := make([]int, 0, len(items))
	for i, item := range items {
		doc, err := domdoc.New(ids[i], item.Fields)
		if err != nil {
			results[i] = dombatch.NewError(ids[i], fmt.Errorf("%w: %w", domain.ErrValidation, err))
			continue
		}
		valid = append(valid, doc)
		validIdx = append(validIdx, i)
	}

	if len(valid) == 0 {
		record("index", results)
		return results
	}

	if err := s.repo.PutBatch(ctx, index, valid); err != nil {
		logger.FromContext(ctx).Error("Bulk index failed",
			zap.String("index", index),
			zap.Int("documents", len(valid)),
			zap.Error(err),
		)
		for _, i := range validIdx {
			results[i] = dombatch.NewError(ids[i], fmt.Errorf("put: %w", err))
		}
		record("index", results)
		return results
	}

	for _, i := range validIdx {
		results[i] = dombatch.NewOK(ids[i])
	}
	record("index", results)
	return results
}

// Delete removes documents by ID. Ids that did not exist are reported as
// domain.ErrDocumentNotFound.
func (s *Service) Delete(ctx context.Context, index string, ids []string) []dombatch.Result {
	if err := s.precheck(ctx, index, len(ids)); err != nil {
		results := dombatch.FailAll(ids, err)
		record("delete", results)
		return results
	}
	if len(ids) == 0 {
		return nil
	}

	existed, err := s.repo.DeleteBatch(ctx, index, ids)
	if err != nil {
		logger.FromContext(ctx).Error("Bulk delete failed",
			zap.String("index", index),
			zap.Int("documents", len(ids)),
			zap.Error(err),
		)
		results := dombatch.FailAll(ids, fmt.Errorf("delete: %w", err))
		record("delete", results)
		return results
	}

	results := make([]dombatch.Result, len(ids))
	for i, id := range ids {
		if i < len(existed) && existed[i] {
			results[i] = dombatch.NewOK(id)
			continue
		}
		results[i] = dombatch.NewError(id, domain.ErrDocumentNotFound)
	}

	record("delete", results)
	return results
}

func (s *Service) precheck(ctx context.Context, index string, n int) error {
	if n > s.maxBatchSize {
		return fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrValidation)
	}
	ok, err := s.indices.Exists(ctx, index)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if !ok {
		return fmt.Errorf("index %s: %w", index, domain.ErrIndexNotFound)
	}
	return nil
}

func record(op string, results []dombatch.Result) {
	c := dombatch.Count(results)
	metrics.DocumentsWrittenTotal.WithLabelValues(op, string(dombatch.StatusOK)).Add(float64(c.OK))
	metrics.DocumentsWrittenTotal.WithLabelValues(op, string(dombatch.StatusError)).Add(float64(c.Failed))
}
