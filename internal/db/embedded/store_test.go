package embedded

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain/query"
)

func newTestStore(t *testing.T, indices ...string) *Store {
	t.Helper()
	s, err := NewStore(Config{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Close)
	for _, name := range indices {
		def := db.NewIndex(name).Text("text", "person", "person_begin").Tag("entityContent").MustBuild()
		if err := s.CreateIndex(context.Background(), def); err != nil {
			t.Fatalf("CreateIndex(%s): %v", name, err)
		}
	}
	return s
}

func put(t *testing.T, s *Store, index string, items ...db.DocumentItem) {
	t.Helper()
	if err := s.PutDocuments(context.Background(), index, items); err != nil {
		t.Fatalf("PutDocuments: %v", err)
	}
}

func ids(entries []db.SearchEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func TestSpaceTokenizer_Positions(t *testing.T) {
	tokens := (&spaceTokenizer{}).Tokenize([]byte("a  b c"))
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	wantPos := []int{1, 3, 4}
	for i, tok := range tokens {
		if tok.Position != wantPos[i] {
			t.Errorf("token %q position = %d, want %d", tok.Term, tok.Position, wantPos[i])
		}
	}
	if string(tokens[1].Term) != "b" || tokens[1].Start != 3 || tokens[1].End != 4 {
		t.Errorf("token[1] = %q [%d,%d)", tokens[1].Term, tokens[1].Start, tokens[1].End)
	}
}

func TestIndexLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "news")

	ok, err := s.IndexExists(ctx, "news")
	if err != nil || !ok {
		t.Fatalf("IndexExists = %v, %v", ok, err)
	}

	def := db.NewIndex("news").Text("text").MustBuild()
	if err := s.CreateIndex(ctx, def); !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}

	if err := s.DropIndex(ctx, "news"); err != nil {
		t.Fatalf("DropIndex: %v", err)
	}
	if err := s.DropIndex(ctx, "news"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
	ok, err = s.IndexExists(ctx, "news")
	if err != nil || ok {
		t.Errorf("IndexExists after drop = %v, %v", ok, err)
	}
}

func TestSearchSpan_MaskedEntity(t *testing.T) {
	s := newTestStore(t, "news")
	put(t, s, "news",
		db.DocumentItem{ID: "1", Fields: map[string]string{
			"text": "the president met oentityo today", "person": "_ _ _ oentityo", "entityContent": "obama",
		}},
		db.DocumentItem{ID: "2", Fields: map[string]string{
			"text": "oentityo met the president", "person": "oentityo", "entityContent": "merkel",
		}},
		db.DocumentItem{ID: "3", Fields: map[string]string{
			"text": "the president met reporters", "entityContent": "none",
		}},
	)

	q := query.TranslateText("met #person", false)
	res, err := s.SearchSpan(context.Background(), &db.SpanSearch{Indices: []string{"news"}, Query: &q, Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	got := ids(res.Entries)
	if len(got) != 1 || got[0] != "1" {
		t.Fatalf("hits = %v, want [1]", got)
	}
	if res.Total != 1 {
		t.Errorf("Total = %d, want 1", res.Total)
	}
	if res.Entries[0].Fields["entityContent"] != "obama" {
		t.Errorf("fields = %v", res.Entries[0].Fields)
	}
	if res.Entries[0].Index != "news" {
		t.Errorf("index = %q", res.Entries[0].Index)
	}
	if res.Shards.Total != 1 || res.Shards.Successful != 1 {
		t.Errorf("shards = %+v", res.Shards)
	}
}

func TestSearchSpan_DocumentMode(t *testing.T) {
	s := newTestStore(t, "news")
	put(t, s, "news",
		db.DocumentItem{ID: "1", Fields: map[string]string{"text": "oentityo said", "person_begin": "oentityo"}},
		db.DocumentItem{ID: "2", Fields: map[string]string{"text": "oentityo said", "person": "oentityo"}},
	)

	q := query.TranslateText("#person said", true)
	res, err := s.SearchSpan(context.Background(), &db.SpanSearch{Query: &q, Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	if got := ids(res.Entries); len(got) != 1 || got[0] != "1" {
		t.Errorf("hits = %v, want [1]", got)
	}
}

func TestSearchSpan_SlopAndOrder(t *testing.T) {
	s := newTestStore(t, "news")
	put(t, s, "news",
		db.DocumentItem{ID: "near", Fields: map[string]string{"text": "alpha x x x x x x x beta"}},
		db.DocumentItem{ID: "far", Fields: map[string]string{"text": "alpha x x x x x x x x beta"}},
		db.DocumentItem{ID: "reversed", Fields: map[string]string{"text": "beta alpha"}},
	)

	q := query.TranslateText("alpha beta", false)
	res, err := s.SearchSpan(context.Background(), &db.SpanSearch{Query: &q, Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	got := ids(res.Entries)
	if len(got) != 1 || got[0] != "near" {
		t.Errorf("in order hits = %v, want [near]", got)
	}

	q.InOrder = false
	res, err = s.SearchSpan(context.Background(), &db.SpanSearch{Query: &q, Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	got = ids(res.Entries)
	if len(got) != 2 || !contains(got, "near") || !contains(got, "reversed") {
		t.Errorf("unordered hits = %v, want near and reversed", got)
	}
}

func TestSearchSpan_CaseSensitive(t *testing.T) {
	s := newTestStore(t, "news")
	put(t, s, "news", db.DocumentItem{ID: "1", Fields: map[string]string{"text": "Paris"}})

	q := query.TranslateText("paris", false)
	res, err := s.SearchSpan(context.Background(), &db.SpanSearch{Query: &q, Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("expected no hits, got %v", ids(res.Entries))
	}
}

func TestSearchSpan_EmptyTerm(t *testing.T) {
	s := newTestStore(t, "news")
	put(t, s, "news", db.DocumentItem{ID: "1", Fields: map[string]string{"text": "a b"}})

	q := query.TranslateText("a  b", false)
	res, err := s.SearchSpan(context.Background(), &db.SpanSearch{Query: &q, Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSearchSpan_MatchAllAndPaging(t *testing.T) {
	s := newTestStore(t, "a", "b")
	put(t, s, "a",
		db.DocumentItem{ID: "a1", Fields: map[string]string{"text": "x"}},
		db.DocumentItem{ID: "a2", Fields: map[string]string{"text": "y"}},
	)
	put(t, s, "b", db.DocumentItem{ID: "b1", Fields: map[string]string{"text": "z"}})

	res, err := s.SearchSpan(context.Background(), &db.SpanSearch{Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	if res.Total != 3 || len(res.Entries) != 3 {
		t.Fatalf("total = %d, entries = %v", res.Total, ids(res.Entries))
	}
	if res.Shards.Total != 2 {
		t.Errorf("shards = %+v", res.Shards)
	}

	res, err = s.SearchSpan(context.Background(), &db.SpanSearch{Indices: []string{"a", "b"}, From: 1, Size: 1})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	if res.Total != 3 || len(res.Entries) != 1 {
		t.Errorf("paged total = %d, entries = %v", res.Total, ids(res.Entries))
	}
}

func TestSearchSpan_UnknownIndex(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SearchSpan(context.Background(), &db.SpanSearch{Indices: []string{"missing"}, Size: 10})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestDeleteDocuments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "news")
	put(t, s, "news", db.DocumentItem{ID: "1", Fields: map[string]string{"text": "a"}})

	existed, err := s.DeleteDocuments(ctx, "news", []string{"1", "2"})
	if err != nil {
		t.Fatalf("DeleteDocuments: %v", err)
	}
	if !existed[0] || existed[1] {
		t.Errorf("existed = %v, want [true false]", existed)
	}

	res, err := s.SearchSpan(ctx, &db.SpanSearch{Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("expected empty index, got %d", res.Total)
	}
}

func TestPersistentReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewStore(Config{Path: dir})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.CreateIndex(ctx, db.NewIndex("news").Text("text").Tag("entityContent").MustBuild()); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	put(t, s, "news", db.DocumentItem{ID: "1", Fields: map[string]string{"text": "hello world"}})
	s.Close()

	reopened, err := NewStore(Config{Path: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	q := query.TranslateText("hello world", false)
	res, err := reopened.SearchSpan(ctx, &db.SpanSearch{Query: &q, Size: 10})
	if err != nil {
		t.Fatalf("SearchSpan: %v", err)
	}
	if got := ids(res.Entries); len(got) != 1 || got[0] != "1" {
		t.Errorf("hits = %v, want [1]", got)
	}
	if f, err := reopened.SignatureField(ctx, "news"); err != nil || f != "entityContent" {
		t.Errorf("SignatureField after reopen = %q, %v", f, err)
	}
}

func TestSignatureField(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "news")
	if err := s.CreateIndex(ctx, db.NewIndex("plain").Text("text").MustBuild()); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}

	if f, err := s.SignatureField(ctx, "news"); err != nil || f != "entityContent" {
		t.Errorf("SignatureField(news) = %q, %v", f, err)
	}
	if f, err := s.SignatureField(ctx, "plain"); err != nil || f != "" {
		t.Errorf("SignatureField(plain) = %q, %v, want empty", f, err)
	}
	if _, err := s.SignatureField(ctx, "missing"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestClosedStore(t *testing.T) {
	s, err := NewStore(Config{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.Close()
	if err := s.Ping(context.Background()); !errors.Is(err, db.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
