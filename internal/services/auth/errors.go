package auth

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with that username or email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked is returned for every attempt against a locked
	// account, correct password or not, until an administrative unlock.
	ErrAccountLocked = errors.New("account is locked")
	ErrInvalidToken  = errors.New("invalid or expired token")
)
