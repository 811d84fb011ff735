package cases

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/pkg/handlers"
)

// Domain errors for case operations.
var (
	ErrNotFound     = evidence.ErrCaseNotFound
	ErrDuplicate    = errors.New("case name already exists")
	ErrInvalidName  = errors.New("case name required")
	ErrInvalidID    = errors.New("invalid case id")
	ErrSealRequired = errors.New("case must be sealed through the seal operation")
)

// MapHTTPStatus maps case domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrSealRequired),
		errors.Is(err, evidence.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, evidence.ErrInvalidStatus),
		errors.Is(err, handlers.ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
