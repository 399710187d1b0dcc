package service

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPostNotFound       = errors.New("post not found")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrForbidden          = errors.New("caller does not own this resource")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrSlugExhausted      = errors.New("could not allocate a unique slug")
)

// ValidationError reports the first invalid input field with a user-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
