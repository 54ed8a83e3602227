package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

// PutDocuments stores each document as a hash in a single DoMulti round-trip.
// The FT index picks them up through its key prefix.
func (s *Store) PutDocuments(ctx context.Context, index string, items []db.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items)*2)
	for _, item := range items {
		key := s.docKey(index, item.ID)
		// replace, not merge: stale entity fields would keep matching
		cmds = append(cmds, s.b().Del().Key(key).Build())
		hset := s.b().Hset().Key(key).FieldValue()
		for k, v := range item.Fields {
			hset = hset.FieldValue(k, v)
		}
		cmds = append(cmds, hset.Build())
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			op := db.OpDel
			if i%2 == 1 {
				op = db.OpHSet
			}
			return &db.Error{Op: op, Err: fmt.Errorf("document %s: %w", items[i/2].ID, err)}
		}
	}
	return nil
}

// DeleteDocuments deletes the hashes of ids in a single DoMulti round-trip.
func (s *Store) DeleteDocuments(ctx context.Context, index string, ids []string) ([]bool, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(ids))
	for i, id := range ids {
		cmds[i] = s.b().Del().Key(s.docKey(index, id)).Build()
	}

	existed := make([]bool, len(ids))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		n, err := res.AsInt64()
		if err != nil {
			return nil, &db.Error{Op: db.OpDel, Err: fmt.Errorf("document %s: %w", ids[i], err)}
		}
		existed[i] = n > 0
	}
	return existed, nil
}
