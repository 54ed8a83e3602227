package index

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain"
	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	"github.com/kailas-cloud/entitysearch/internal/domain/index/field"
)

func testIndex(t *testing.T) domindex.Index {
	t.Helper()
	person, err := field.New("person", field.Text)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := domindex.New("news", []field.Field{person}, "")
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestCreate_BuildsDefinition(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		got = def
		return nil
	}

	if err := repo.Create(context.Background(), testIndex(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Name != "news" {
		t.Fatalf("definition = %+v", got)
	}
	if want := "INDEX news SCHEMA text TEXT person TEXT entityContent TAG"; got.String() != want {
		t.Errorf("definition = %q, want %q", got.String(), want)
	}
	if ft, _ := got.FieldType("entityContent"); ft != db.IndexFieldTag {
		t.Errorf("signature field type = %v", ft)
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists }

	err := repo.Create(context.Background(), testIndex(t))
	if !errors.Is(err, domain.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDrop_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.dropIndexFn = func(_ context.Context, name string) error {
		if name != "news" {
			t.Errorf("name = %q", name)
		}
		return db.ErrIndexNotFound
	}

	if err := repo.Drop(context.Background(), "news"); !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestDrop_Success(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := repo.Drop(context.Background(), "news"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }

	ok, err := repo.Exists(context.Background(), "news")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}

	ms.indexExistsFn = func(context.Context, string) (bool, error) {
		return false, &db.Error{Op: db.OpIndexInfo, Err: errors.New("boom")}
	}
	if _, err := repo.Exists(context.Background(), "news"); !errors.Is(err, domain.ErrBackend) {
		t.Errorf("expected ErrBackend, got %v", err)
	}
}

func TestSignatureField(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.signatureFn = func(_ context.Context, name string) (string, error) {
		if name != "news" {
			return "", db.ErrIndexNotFound
		}
		return "topic", nil
	}

	f, err := repo.SignatureField(context.Background(), "news")
	if err != nil || f != "topic" {
		t.Errorf("SignatureField = %q, %v", f, err)
	}
	if _, err := repo.SignatureField(context.Background(), "missing"); !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}
