package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMapping pairs a sentinel with its status and code. Order matters:
// the first match wins.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrDependency, http.StatusConflict, "dependency_error"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
}

// sentinels are stripped from messages shown to clients.
var sentinels = []error{
	domain.ErrValidation, domain.ErrInvalidDate, domain.ErrInvalidStatus, domain.ErrNotFound,
	domain.ErrConflict, domain.ErrDependency, domain.ErrForbidden, domain.ErrUnauthorized,
}

// writeServiceError maps a service error to a response. Unknown errors are
// logged and answered with a generic 500 so internals never leak.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, unwrapMessage(err))
			return
		}
	}
	s.log.ErrorContext(r.Context(), "unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// validationError answers a request rejected before reaching the service
// layer (e.g. malformed body or query).
func validationError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	cut := 0
	for _, s := range sentinels {
		prefix := s.Error() + ": "
		if i := strings.LastIndex(msg, prefix); i >= 0 && i+len(prefix) > cut {
			cut = i + len(prefix)
		}
	}
	if cut > 0 {
		return msg[cut:]
	}
	// A bare sentinel, e.g. "repo.TripRepo.GetByID: not found".
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return msg
}
