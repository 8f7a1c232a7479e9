// Package common defines shared constants and sentinel errors used across
// the identity server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateToken = errors.New("duplicate token")
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInconsistentState marks an account that was persisted without its
	// first credential. The account is returned alongside the error so the
	// caller can retry credential issuance.
	ErrInconsistentState = errors.New("account created without credential")

	// Validation errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// Auth errors (invalid, malformed or tampered token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
