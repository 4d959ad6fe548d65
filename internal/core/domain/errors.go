package domain

import "errors"

// Todo errors. ErrTodoNotFound covers both a missing row and a row
// owned by someone else, so handlers cannot leak existence.
var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrEmptyContent  = errors.New("content must not be empty")
	ErrMissingOwner  = errors.New("todo requires an owner")
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)

// User and auth errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
)
