package exhibits

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/pkg/handlers"
	"github.com/JaimeStill/verum/pkg/storage"
)

// Domain errors for evidence operations.
var (
	ErrNotFound        = errors.New("evidence not found")
	ErrDuplicate       = errors.New("evidence already exists")
	ErrImmutable       = errors.New("sealed evidence is immutable")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrInvalidFile     = errors.New("invalid file")
	ErrInvalidKind     = errors.New("invalid evidence kind")
	ErrInvalidLocation = errors.New("latitude and longitude must be given together as numbers")
	ErrInvalidTime     = errors.New("timestamps must be RFC 3339")
	ErrInvalidID       = errors.New("invalid id")
)

// MapHTTPStatus maps evidence domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, evidence.ErrCaseNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrImmutable),
		errors.Is(err, storage.ErrExists),
		errors.Is(err, evidence.ErrCaseSealed),
		errors.Is(err, evidence.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrInvalidKind),
		errors.Is(err, ErrInvalidLocation),
		errors.Is(err, ErrInvalidTime),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, handlers.ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
