package auth

import "errors"

var (
	// ErrInvalidCredentials covers both "unknown user" and "wrong password".
	// Collapsing the two is a security property: nothing downstream may
	// distinguish them.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrPasswordMismatch is returned when the new password and its
	// confirmation differ.
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")

	// ErrWeakPassword is returned when the new password fails the length
	// policy.
	ErrWeakPassword = errors.New("new password must be between 12 and 128 characters")
)
