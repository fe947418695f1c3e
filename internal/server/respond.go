package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/lmfernandez/tastify/internal/auth"
	"github.com/lmfernandez/tastify/internal/services"
	"github.com/lmfernandez/tastify/internal/shared"
)

// errorBody is the JSON error envelope: {"detail": "..."}
type errorBody struct {
	Detail string `json:"detail"`
}

// writeJSON encodes payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps err to an HTTP status and writes the error envelope.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(err)
	if status >= 500 {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Detail: err.Error()})
}

// statusFor maps domain errors to HTTP status codes. Upstream failures
// relay the provider's own status.
func statusFor(err error) int {
	var authErr *auth.UpstreamAuthError
	if errors.As(err, &authErr) {
		return authErr.Status
	}

	var queryErr *services.UpstreamQueryError
	if errors.As(err, &queryErr) {
		return queryErr.Status
	}

	switch {
	case errors.Is(err, shared.ErrAuthTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, shared.ErrUserNotFound), errors.Is(err, shared.ErrTrackNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrMissingCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
