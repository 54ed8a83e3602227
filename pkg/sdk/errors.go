package entitysearch

import "github.com/kailas-cloud/entitysearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexNotFound    = domain.ErrIndexNotFound
	ErrIndexExists      = domain.ErrIndexExists
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	ErrValidation       = domain.ErrValidation
	ErrTranslation      = domain.ErrTranslation
	ErrBackend          = domain.ErrBackend
)
