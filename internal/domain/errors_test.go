package domain

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestValidationError_AggregatesReasons(t *testing.T) {
	var agg error
	agg = multierr.Append(agg, errors.New("first"))
	agg = multierr.Append(agg, errors.New("second"))

	err := NewValidationError(agg)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Reasons) != 2 {
		t.Fatalf("expected 2 reasons, got %d", len(ve.Reasons))
	}
	if want := "validation failed: first; second"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestNewValidationError_Nil(t *testing.T) {
	if err := NewValidationError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestTranslationError(t *testing.T) {
	cause := errors.New("unexpected token")
	err := NewTranslationError(`{"q":`, cause)

	if !errors.Is(err, ErrTranslation) {
		t.Error("expected ErrTranslation")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if !strings.Contains(err.Error(), `[{"q":]`) {
		t.Errorf("expected source in message, got %q", err.Error())
	}
}

func TestTranslationError_EmptySource(t *testing.T) {
	err := NewTranslationError("", errors.New("x"))
	var te *TranslationError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TranslationError, got %T", err)
	}
	if te.Source != "_na_" {
		t.Errorf("expected _na_, got %q", te.Source)
	}
}
