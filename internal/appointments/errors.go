package appointments

import "errors"

var (
	// ErrNotFound is returned when an appointment does not exist
	ErrNotFound = errors.New("Appointment not found")

	// ErrInvalidRequest is returned when a payload fails validation
	ErrInvalidRequest = errors.New("invalid appointment request")
)
