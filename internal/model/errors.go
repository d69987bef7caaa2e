package model

import "errors"

var (
	// User related errors
	ErrUserNotFound = errors.New("user not found")

	// Bookmark related errors. Ownership mismatches surface as not-found so
	// existence is never leaked to non-owners.
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
