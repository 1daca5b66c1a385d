package handlers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/shared/apperr"
)

// orNotFound maps a gorm record miss to a 404 and wraps everything
// else as internal.
func orNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundErr(msg)
	}
	return apperr.Wrap(err)
}
