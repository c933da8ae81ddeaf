package patients

import "errors"

var (
	// ErrNotFound is returned when a patient does not exist
	ErrNotFound = errors.New("Patient not found")

	ErrInvalidRequest = errors.New("invalid patient request")
)
