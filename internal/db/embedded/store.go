package embedded

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/kailas-cloud/entitysearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultMaxCandidates bounds the term-conjunction hits checked for span proximity.
const DefaultMaxCandidates = 10000

// Config holds settings for the embedded store.
type Config struct {
	// Path is the directory holding one sub-directory per index. Empty keeps
	// every index in memory.
	Path          string
	MaxCandidates int
}

// Store implements db.Store on bleve indices, one per index name.
type Store struct {
	mu            sync.RWMutex
	indices       map[string]bleve.Index
	path          string
	maxCandidates int
	closed        bool
}

// NewStore opens every index found under cfg.Path, or starts an empty
// in-memory store when no path is set.
func NewStore(cfg Config) (*Store, error) {
	s := &Store{
		indices:       make(map[string]bleve.Index),
		path:          cfg.Path,
		maxCandidates: cfg.MaxCandidates,
	}
	if s.maxCandidates <= 0 {
		s.maxCandidates = DefaultMaxCandidates
	}
	if cfg.Path == "" {
		return s, nil
	}

	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", cfg.Path, err)
	}
	entries, err := os.ReadDir(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.Path, err)
	}
	for _, e := range entries {
		if !e.IsDir() || !db.IsValidIdentifier(e.Name()) {
			continue
		}
		idx, err := bleve.Open(filepath.Join(cfg.Path, e.Name()))
		if err != nil {
			s.Close()
			return nil, &db.Error{Op: db.OpOpen, Err: fmt.Errorf("index %s: %w", e.Name(), err)}
		}
		s.indices[e.Name()] = idx
	}
	return s, nil
}

// Ping reports whether the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.ErrClosed
	}
	return nil
}

// Close closes every open index.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for name, idx := range s.indices {
		_ = idx.Close()
		delete(s.indices, name)
	}
}

// WaitForReady returns immediately: an embedded store is ready once opened.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// index returns the named index. Callers hold s.mu.
func (s *Store) index(name string) (bleve.Index, error) {
	if s.closed {
		return nil, db.ErrClosed
	}
	idx, ok := s.indices[name]
	if !ok {
		return nil, db.ErrIndexNotFound
	}
	return idx, nil
}

// names returns every index name in sorted order. Callers hold s.mu.
func (s *Store) names() []string {
	out := make([]string, 0, len(s.indices))
	for name := range s.indices {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrIndexNotFound)
}
