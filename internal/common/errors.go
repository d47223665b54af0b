// Package common defines shared constants and sentinel errors used across
// Facturio components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account-state errors. A disabled account is reported distinctly from bad
	// credentials: the caller has already proven knowledge of a valid secret.
	ErrorUserDisabled = errors.New("account disabled")

	// Auth errors (invalid, forged or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
