package domain

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrIndexNotFound signals a missing index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrIndexExists signals a duplicate index.
	ErrIndexExists = errors.New("index already exists")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrValidation signals a request that failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrTranslation signals a query payload that could not be parsed.
	ErrTranslation = errors.New("failed to parse source")
	// ErrBackend signals a failure inside the search backend.
	ErrBackend = errors.New("search backend error")
)

// ValidationError lists every reason a request was rejected.
type ValidationError struct {
	Reasons []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError converts an aggregated multierr value into a ValidationError.
// Returns nil when err is nil.
func NewValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Reasons: multierr.Errors(err)}
}

// TranslationError wraps a parse failure together with the offending source.
type TranslationError struct {
	Source string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", ErrTranslation.Error(), e.Source, e.Err)
}

// Unwrap exposes both ErrTranslation and the underlying cause.
func (e *TranslationError) Unwrap() []error { return []error{ErrTranslation, e.Err} }

// NewTranslationError creates a translation error. An empty source is recorded as "_na_".
func NewTranslationError(source string, err error) error {
	if source == "" {
		source = "_na_"
	}
	return &TranslationError{Source: source, Err: err}
}
