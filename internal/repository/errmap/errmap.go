// Package errmap translates storage errors into domain errors.
package errmap

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/domain"
)

// Wrap maps db sentinels to their domain counterparts and marks every other
// failure as a backend error. The original error stays reachable.
func Wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrIndexNotFound):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrIndexNotFound, err)
	case errors.Is(err, db.ErrIndexExists):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrIndexExists, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrBackend, err)
	}
}
