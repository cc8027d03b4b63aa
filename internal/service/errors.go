// Package service orchestrates storage and the settlement calculator
// behind the HTTP API.
package service

import (
	"errors"

	"github.com/peggytheclaw/tripledger/internal/storage"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the authenticated user may not act on the
	// record.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates the request failed business validation.
	ErrInvalidInput = errors.New("invalid input")
)

// errorsIsNotFound reports whether err is a storage-level not-found.
func errorsIsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
