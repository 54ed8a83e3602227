package entitysearch

import (
	"context"
	"time"

	dombatch "github.com/kailas-cloud/entitysearch/internal/domain/batch"
	documentuc "github.com/kailas-cloud/entitysearch/internal/usecase/document"
)

// DocumentService writes documents into a single index.
type DocumentService struct {
	index string
	svc   documentUseCase
	obs   *observer
}

// Index adds or replaces docs. Results are in input order; a failed item
// does not fail the others.
func (s *DocumentService) Index(ctx context.Context, docs []Document) []BatchResult {
	start := time.Now()
	items := make([]documentuc.Item, len(docs))
	for i, d := range docs {
		items[i] = documentuc.Item{ID: d.ID, Fields: d.Fields}
	}
	results := s.svc.Index(ctx, s.index, items)
	s.obs.observe("document.index", start, dombatch.FirstError(results))
	return fromBatchResults(results)
}

// Delete removes documents by id. Unknown ids fail with ErrDocumentNotFound.
func (s *DocumentService) Delete(ctx context.Context, ids []string) []BatchResult {
	start := time.Now()
	results := s.svc.Delete(ctx, s.index, ids)
	s.obs.observe("document.delete", start, dombatch.FirstError(results))
	return fromBatchResults(results)
}

func fromBatchResults(results []dombatch.Result) []BatchResult {
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{
			ID:  r.ID(),
			OK:  r.OK(),
			Err: r.Err(),
		}
	}
	return out
}
