package conversations

import "errors"

var (
	ErrNotFound       = errors.New("Conversation not found")
	ErrInvalidRequest = errors.New("invalid conversation request")
)
