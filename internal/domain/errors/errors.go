package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrDuplicateEmail     = errors.New("Email already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthorized       = errors.New("Unauthorized")
	ErrUserNotFound       = errors.New("User not found")
	ErrUpdateRejected     = errors.New("Could not update user")
	ErrInternal           = errors.New("internal error")
)
