package persistence

import (
	"errors"

	"github.com/propertyhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM's translated driver errors to domain errors.
// Errors with no domain meaning are returned unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrIntegrityViolation
	default:
		return err
	}
}
