package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/session"
)

type apiError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  session.FieldErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message})
}

// writeEngineError maps desktop errors onto HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	if fields, ok := desktop.IsFieldError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Code:    "invalid_form",
			Message: fields.First(),
			Fields:  fields,
		})
		return
	}

	switch {
	case errors.Is(err, desktop.ErrUnknownWindow),
		errors.Is(err, desktop.ErrUnknownApp),
		errors.Is(err, desktop.ErrUnknownIcon),
		errors.Is(err, desktop.ErrUnknownSidebar):
		writeAPIError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, desktop.ErrWindowClosed):
		writeAPIError(w, http.StatusConflict, "window_closed", err.Error())
	case errors.Is(err, session.ErrNotAuthenticated):
		writeAPIError(w, http.StatusConflict, "not_authenticated", err.Error())
	default:
		writeAPIError(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}
