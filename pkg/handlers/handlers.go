// Package handlers provides JSON response and request helpers shared by domain handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrBadRequest indicates a request body that could not be decoded.
var ErrBadRequest = errors.New("malformed request body")

// RespondJSON writes data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes {"error": err} with the given status.
// Server errors are logged; client errors are not.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON decodes a JSON request body into dst, rejecting unknown fields
// and bodies larger than maxBytes. A maxBytes of zero disables the limit.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
