package domain

import "errors"

// Sentinel errors shared across services and repositories. Repositories
// translate driver errors into these; controllers map them to status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("ticket already used")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate")
)
