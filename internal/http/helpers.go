package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"compras/internal/core"
	applog "compras/internal/log"
	"compras/internal/services"
)

var (
	errRestricted  = errors.New("analytics are hidden in restricted mode")
	errBadRequest  = errors.New("malformed request")
	errInvalidPath = errors.New("invalid path parameter")
)

// statusFor maps service errors to HTTP status codes. Anything unknown,
// including wrapped save failures, is a 500.
func statusFor(err error) int {
	switch {
	case core.IsValidation(err), errors.Is(err, services.ErrEmptyDraft):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrWrongPasscode), errors.Is(err, errRestricted):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidIndex), errors.Is(err, errBadRequest), errors.Is(err, errInvalidPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeInternal)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// pathIndex parses a non-negative integer path value.
func pathIndex(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil || v < 0 {
		return 0, errInvalidPath
	}
	return v, nil
}

// sanitizeInput drops control characters except tab and newlines and trims
// whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
