package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/example/storefront/internal/apperr"
)

// storeError classifies a gorm error. Unique-key violations become
// InvalidState, everything else is treated as a transient store failure.
func storeError(err error, operation, table string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.InvalidState("%s: duplicate key", table)
	}
	return apperr.Unavailable(err, operation, table)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
