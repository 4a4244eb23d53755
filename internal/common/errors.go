// Package common defines shared constants and sentinel errors used across
// the message wall service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrValidation = errors.New("validation error")
	ErrEmailTaken = errors.New("email already registered")

	// Message flow errors. Each wall operation fails with its own sentinel
	// so the transport layer can pick the right user-facing banner.
	ErrFetch  = errors.New("fetch failed")
	ErrSave   = errors.New("save failed")
	ErrDelete = errors.New("delete failed")
	ErrUpload = errors.New("upload failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
