package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")

	// ErrConflict marks a state mismatch the caller can correct by
	// reconciling its view with the server. It is never retried blindly.
	ErrConflict     = errors.New("conflict")
	ErrAlreadyVoted = fmt.Errorf("%w: already voted", ErrConflict)
	ErrNotVoted     = fmt.Errorf("%w: not voted", ErrConflict)

	// ErrStorageFailure wraps every backing-store error. The core never
	// retries it.
	ErrStorageFailure = errors.New("storage failure")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, op, err)
}
