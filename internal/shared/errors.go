package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenMissing occurs when a request carries no bearer token.
	ErrTokenMissing = errors.New("authorization token missing")
	// ErrTokenInvalid occurs when a bearer token fails verification.
	ErrTokenInvalid = errors.New("authorization token invalid")
	// ErrSessionRevoked occurs when a token references a revoked session.
	ErrSessionRevoked = errors.New("session revoked")
)
