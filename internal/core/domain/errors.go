package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrWeakPassword       = errors.New("password must be at least 8 characters and contain upper case, lower case, digit and symbol")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrCarNotFound        = errors.New("car not found")
	ErrCarUnavailable     = errors.New("car not available")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrRateLimited        = errors.New("too many requests")
)
