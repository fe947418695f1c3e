package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/lmfernandez/tastify/internal/auth"
	"github.com/lmfernandez/tastify/internal/shared"
)

// AuthHandler serves the authorization endpoints backed by an [auth.Broker].
// Implements the [Handler] interface for registration with a [Router].
type AuthHandler struct {
	broker *auth.Broker
	logger *log.Logger
}

// NewAuthHandler creates an auth handler for the given broker.
func NewAuthHandler(broker *auth.Broker, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{broker: broker, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"GET /spotify/auth",
		"GET /callback",
		"GET /spotify/get_token",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/spotify/auth":
		h.handleAuthURL(w, r)
	case "/callback":
		h.handleCallback(w, r)
	case "/spotify/get_token":
		h.handleGetToken(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleAuthURL returns the upstream authorization URL without side effects.
func (h *AuthHandler) handleAuthURL(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"auth_url": h.broker.AuthURL()})
}

// handleCallback exchanges the authorization code delivered by the provider
// redirect and stores the resulting credential.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		if errParam != "" {
			writeError(w, h.logger, fmt.Errorf("%w: provider returned %q", shared.ErrAuthFailed, errParam))
			return
		}
		writeError(w, h.logger, fmt.Errorf("%w: missing authorization code", shared.ErrInvalidArgument))
		return
	}

	cred, err := h.broker.HandleCallback(r.Context(), code)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, cred)
}

// handleGetToken blocks until a credential is available or the broker's
// wait bound elapses, then returns the bearer token as plain text.
func (h *AuthHandler) handleGetToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.broker.AcquireToken(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, token)
}
