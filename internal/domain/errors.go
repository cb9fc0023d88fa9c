package domain

import "errors"

var ErrNotFound = errors.New("resource not found")

// Validation failures raised by the routine and status operations.
var (
	ErrInvalidSlot      = errors.New("slot must be 'am' or 'pm'")
	ErrInvalidProductID = errors.New("invalid product id")
	ErrAlreadyPresent   = errors.New("product already in routine")
	ErrInvalidDate      = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidMonth     = errors.New("year must be 1-9999 and month 1-12")
)
