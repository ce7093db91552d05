package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidUser     = errors.New("invalid user")
	ErrForbidden       = errors.New("access forbidden")
	ErrUnauthenticated = errors.New("not authenticated")
)
