package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"skincare-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("planner timeout")
	err := apperror.ExternalService("Failed to generate routine", cause)

	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, "Failed to generate routine", err.Error())
	assert.ErrorIs(t, err, cause)

	var appErr *apperror.AppError
	assert.True(t, errors.As(error(err), &appErr))
}

func TestInvalidUsesCauseMessage(t *testing.T) {
	cause := errors.New("slot must be 'am' or 'pm'")
	err := apperror.Invalid(cause)

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, cause.Error(), err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestFromAndStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("saving routine: %w", apperror.NotFound("User not found"))

	appErr, ok := apperror.From(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "User not found", appErr.Message)
	assert.Equal(t, http.StatusNotFound, apperror.StatusCode(wrapped))

	_, ok = apperror.From(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apperror.StatusCode(errors.New("boom")))
}
