package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// translateWriteError maps store errors from admin writes onto the error
// taxonomy. Requires gorm's TranslateError.
func translateWriteError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s conflicts with an existing order index", ErrInvalidInput, what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s references a missing parent", ErrInvalidInput, what)
	default:
		return fmt.Errorf("error writing %s: %w", what, err)
	}
}
