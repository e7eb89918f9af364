// Package common defines shared constants and sentinel errors used across
// the layers of the note backend. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Input errors (empty title, self-parent, self-share and friends).
	ErrorValidation = errors.New("validation error")

	// Unique-constraint races: duplicate email/username, duplicate grant.
	ErrorConflict = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
