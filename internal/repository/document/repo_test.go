package document

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain"
	domdoc "github.com/kailas-cloud/entitysearch/internal/domain/document"
)

func testDocument(t *testing.T, id string) domdoc.Document {
	t.Helper()
	doc, err := domdoc.New(id, map[string]string{"text": "bar oentityo", "foo": "_ oentityo"})
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}

func TestPutBatch(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.putFn = func(_ context.Context, index string, items []db.DocumentItem) error {
		if index != "news" {
			t.Errorf("index = %q", index)
		}
		if len(items) != 2 || items[0].ID != "d1" || items[1].ID != "d2" {
			t.Errorf("items = %+v", items)
		}
		if items[0].Fields["foo"] != "_ oentityo" {
			t.Errorf("fields = %v", items[0].Fields)
		}
		return nil
	}

	docs := []domdoc.Document{testDocument(t, "d1"), testDocument(t, "d2")}
	if err := repo.PutBatch(context.Background(), "news", docs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutBatch_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.putFn = func(context.Context, string, []db.DocumentItem) error {
		t.Error("store called for empty batch")
		return nil
	}
	if err := repo.PutBatch(context.Background(), "news", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutBatch_IndexNotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.putFn = func(context.Context, string, []db.DocumentItem) error { return db.ErrIndexNotFound }

	err := repo.PutBatch(context.Background(), "news", []domdoc.Document{testDocument(t, "d1")})
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestDeleteBatch(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.deleteFn = func(_ context.Context, _ string, ids []string) ([]bool, error) {
		return []bool{true, false}, nil
	}

	existed, err := repo.DeleteBatch(context.Background(), "news", []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(existed, []bool{true, false}) {
		t.Errorf("existed = %v", existed)
	}
}

func TestDeleteBatch_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.deleteFn = func(context.Context, string, []string) ([]bool, error) {
		return nil, &db.Error{Op: db.OpDel, Err: errors.New("boom")}
	}

	if _, err := repo.DeleteBatch(context.Background(), "news", []string{"a"}); !errors.Is(err, domain.ErrBackend) {
		t.Errorf("expected ErrBackend, got %v", err)
	}
}
