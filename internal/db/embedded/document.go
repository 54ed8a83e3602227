package embedded

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

// PutDocuments indexes items in a single batch. Existing ids are replaced.
func (s *Store) PutDocuments(_ context.Context, index string, items []db.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, err := s.index(index)
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	for _, item := range items {
		doc := make(map[string]interface{}, len(item.Fields))
		for k, v := range item.Fields {
			doc[k] = v
		}
		if err := batch.Index(item.ID, doc); err != nil {
			return &db.Error{Op: db.OpBatch, Err: fmt.Errorf("document %s: %w", item.ID, err)}
		}
	}
	if err := idx.Batch(batch); err != nil {
		return &db.Error{Op: db.OpBatch, Err: err}
	}
	return nil
}

// DeleteDocuments removes ids in a single batch.
func (s *Store) DeleteDocuments(_ context.Context, index string, ids []string) ([]bool, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, err := s.index(index)
	if err != nil {
		return nil, err
	}

	existed := make([]bool, len(ids))
	batch := idx.NewBatch()
	for i, id := range ids {
		doc, err := idx.Document(id)
		if err != nil {
			return nil, &db.Error{Op: db.OpDel, Err: fmt.Errorf("document %s: %w", id, err)}
		}
		if doc == nil {
			continue
		}
		existed[i] = true
		batch.Delete(id)
	}
	if batch.Size() == 0 {
		return existed, nil
	}
	if err := idx.Batch(batch); err != nil {
		return nil, &db.Error{Op: db.OpBatch, Err: err}
	}
	return existed, nil
}
