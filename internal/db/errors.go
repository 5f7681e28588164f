package db

import (
	"errors"

	"github.com/aicuratorhub/curatorhub-admin/pkg/database"
)

var (
	// ErrNotFound is returned when no candidate location holds the document.
	ErrNotFound = database.ErrNotFound
	// ErrUnavailable is returned when the document store cannot be reached.
	ErrUnavailable = database.ErrUnavailable
	// ErrInvalidInput is returned for empty ids and similar caller mistakes.
	ErrInvalidInput = errors.New("invalid input")
)

// Status is the tagged outcome of an accessor operation.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusUnavailable
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

// StatusOf classifies an error returned by an accessor.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrUnavailable):
		return StatusUnavailable
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}
