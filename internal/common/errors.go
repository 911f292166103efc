// Package common defines shared constants and sentinel errors used across the
// AgriTrack client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Backend resource errors.
	ErrNotFound = errors.New("not found")

	// Auth and authorization errors.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("not authorized for this tracking stage")
	ErrTokenExpired     = errors.New("session token expired")

	// Client-side input errors.
	ErrValidation = errors.New("validation error")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")

	// Generic fallback for unclassified backend failures.
	ErrInternal = errors.New("internal error")
)
