// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration conflicts on unique fields.
	ErrEmailTaken = errors.New("email already in use")
	ErrPhoneTaken = errors.New("phone already in use")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrNotRefresh   = errors.New("not a refresh token")

	// Session lifecycle errors.
	ErrSessionRevoked = errors.New("refresh token revoked")
	ErrSessionExpired = errors.New("refresh token expired")

	// Account state.
	ErrUserDisabled = errors.New("user disabled")

	// Login throttling.
	ErrRateLimited = errors.New("too many attempts")
)
