package service

import "errors"

var (
	// ErrUnauthenticated covers every bearer-token rejection: missing,
	// unknown, revoked and expired tokens are deliberately not
	// distinguished to the caller.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrInvalidCredentials = errors.New("invalid login id or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid or expired")
	ErrEndBeforeStart     = errors.New("end_time must not be before start_time")
)
