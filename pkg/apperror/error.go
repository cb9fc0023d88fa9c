package apperror

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Invalid is a 400 that keeps the validation error as its cause.
func Invalid(err error) *AppError {
	return New(http.StatusBadRequest, err.Error(), err)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// ExternalService reports a failed call to a third-party dependency. The
// message is shown to the client; err is only logged.
func ExternalService(message string, err error) *AppError {
	return New(http.StatusInternalServerError, message, err)
}

// From returns err as an *AppError when one is in its chain.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusCode is the HTTP status err maps to: its AppError code, or 500.
func StatusCode(err error) int {
	if appErr, ok := From(err); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
