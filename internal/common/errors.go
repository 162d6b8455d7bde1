// Package common defines shared constants and sentinel errors used across
// the dashboard server, its clients and the CLI. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Settings errors.
	ErrServerURLNotSet = errors.New("server URL is not configured")

	// Lookup errors.
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// Remote collaborator errors.
	ErrRemoteUnavailable = errors.New("remote server unavailable")
	ErrPushRejected      = errors.New("push rejected")
	ErrReportsDisabled   = errors.New("report export is not configured")
)
