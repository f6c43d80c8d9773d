package services

import "errors"

var (
	// ErrForbidden is returned when the requester does not own the thought
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens
	ErrInvalidToken = errors.New("invalid access token")
	// ErrAccessDenied is returned when a valid token names a user that no longer exists
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidCredentials is returned when a login does not match a user
	ErrInvalidCredentials = errors.New("credentials not correct")
)

// ValidationError describes rejected input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
