package embedded

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

// signatureFieldKey is the internal bleve key holding the index's tag field.
var signatureFieldKey = []byte("_signature_field")

// CreateIndex creates a bleve index from the given definition.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	im, err := buildMapping(def)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.ErrClosed
	}
	if _, ok := s.indices[def.Name]; ok {
		return db.ErrIndexExists
	}

	var idx bleve.Index
	if s.path == "" {
		idx, err = bleve.NewMemOnly(im)
	} else {
		idx, err = bleve.New(filepath.Join(s.path, def.Name), im)
	}
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	idx.SetName(def.Name)
	if tag := def.TagField(); tag != "" {
		if err := idx.SetInternal(signatureFieldKey, []byte(tag)); err != nil {
			_ = idx.Close()
			return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("store signature field: %w", err)}
		}
	}
	s.indices[def.Name] = idx
	return nil
}

// DropIndex closes the index and removes its files.
func (s *Store) DropIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.index(name)
	if err != nil {
		return err
	}
	delete(s.indices, name)
	if err := idx.Close(); err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	if s.path != "" {
		if err := os.RemoveAll(filepath.Join(s.path, name)); err != nil {
			return &db.Error{Op: db.OpDropIndex, Err: fmt.Errorf("remove files: %w", err)}
		}
	}
	return nil
}

// IndexExists reports whether the index is open in this store.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.index(name); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SignatureField reads the tag field recorded when the index was created.
func (s *Store) SignatureField(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, err := s.index(name)
	if err != nil {
		return "", err
	}
	v, err := idx.GetInternal(signatureFieldKey)
	if err != nil {
		return "", &db.Error{Op: db.OpIndexInfo, Err: fmt.Errorf("index %s: %w", name, err)}
	}
	return string(v), nil
}
