// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Remote-service error taxonomy. ErrValidation means the server rejected
	// the entity content and the operation must not be retried offline.
	// ErrUnavailable covers transport-level failures (connection refused,
	// timeout, 5xx, malformed response) and triggers the offline fallback.
	ErrValidation   = errors.New("validation error")
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)
