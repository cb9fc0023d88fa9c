package usecase

import (
	"errors"

	"skincare-backend/internal/domain"
	"skincare-backend/pkg/apperror"
)

// toAppError maps domain sentinels onto HTTP-facing errors. Anything it does
// not recognise is an internal error.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperror.From(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrInvalidProductID),
		errors.Is(err, domain.ErrAlreadyPresent),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMonth):
		return apperror.Invalid(err)
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Resource not found")
	}
	return apperror.Internal(err)
}
