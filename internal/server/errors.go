// Package server provides the HTTP REST API for the apply agent.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrProfileNotFound indicates the requested profile does not exist
type ErrProfileNotFound struct {
	ProfileID uuid.UUID
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("profile not found: %s", e.ProfileID)
}

// ErrRunNotFound indicates the requested fill run does not exist
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("fill run not found: %s", e.RunID)
}

// ErrNoDatabase indicates a storage endpoint was called without a
// configured database
type ErrNoDatabase struct{}

func (e *ErrNoDatabase) Error() string {
	return "no database configured"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrProfileNotFound, *ErrRunNotFound:
		return http.StatusNotFound
	case *ErrNoDatabase:
		return http.StatusServiceUnavailable
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
