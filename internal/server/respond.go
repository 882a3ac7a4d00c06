package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/alexanderramin/midai/internal/repository"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    status,
		Message: message,
	})
}

// fail maps service errors onto status codes. Internal error text is logged,
// not returned.
func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		a.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into dst. Unknown fields are accepted so newer
// clients keep working.
func decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.NewValidationError("body", "is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid json: %v", err)
	}
	return nil
}

// userID prefers the explicit value, then the header, then the query string.
func userID(r *http.Request, explicit string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get(UserHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("userId"))
}
