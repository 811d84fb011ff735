package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/pkg/handlers"
)

// Domain errors for analysis operations.
var (
	ErrNotFound         = errors.New("analysis not found")
	ErrDuplicate        = errors.New("analysis already exists")
	ErrInvalidStatement = errors.New("invalid statement")
	ErrInvalidID        = errors.New("invalid id")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, evidence.ErrCaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatement),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, handlers.ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
