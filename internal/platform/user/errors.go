package user

import "errors"

// User errors
var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidPasswordHash = errors.New("invalid password hash")
	ErrPasswordTooShort    = errors.New("password must be at least 6 characters")
	ErrNameRequired        = errors.New("name is required")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("email already exists")
)
