package domain

import "errors"

var (
	// ErrValidation marks input rejected before any request is sent.
	ErrValidation = errors.New("validation error")
	// ErrBusy is returned when another operation is already in flight.
	ErrBusy = errors.New("another operation is in progress")
)
