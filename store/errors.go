package store

import "errors"

// Failure kinds returned by the core stores. All are request-scoped and
// recoverable; the transport layer maps them to HTTP status codes.
var (
	ErrDuplicateIdentity    = errors.New("identity already registered")
	ErrNotFound             = errors.New("identity not found")
	ErrInvalidCredential    = errors.New("invalid email or password")
	ErrMissingCredential    = errors.New("credential not provided")
	ErrBlocked              = errors.New("access is blocked")
	ErrForbidden            = errors.New("administrator role required")
	ErrMissingRequiredField = errors.New("required field missing")
	ErrInvalidCoordinate    = errors.New("invalid coordinate pair")
)
