package auth

import (
	"errors"
	"strings"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// FieldError is one backend validation failure
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors collects backend validation failures for display
type FieldErrors struct {
	Fields []FieldError
}

func (e *FieldErrors) Error() string {
	lines := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			lines = append(lines, f.Message)
			continue
		}
		lines = append(lines, f.Field+": "+f.Message)
	}
	return strings.Join(lines, "\n")
}
