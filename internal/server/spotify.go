package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/lmfernandez/tastify/internal/auth"
	"github.com/lmfernandez/tastify/internal/services"
	"github.com/lmfernandez/tastify/internal/shared"
)

// bearerToken resolves the access token for an upstream query: an explicit
// access_token query parameter wins, otherwise the broker supplies one
// (starting the authorization flow if needed).
func bearerToken(r *http.Request, broker *auth.Broker) (string, error) {
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, nil
	}
	if broker == nil {
		return "", fmt.Errorf("%w: no access token supplied", shared.ErrNotAuthenticated)
	}
	return broker.AcquireToken(r.Context())
}

// SpotifyHandler serves upstream catalog query endpoints.
// Implements the [Handler] interface for registration with a [Router].
type SpotifyHandler struct {
	spotify services.Service
	broker  *auth.Broker
	logger  *log.Logger
}

// NewSpotifyHandler creates a catalog query handler.
func NewSpotifyHandler(spotify services.Service, broker *auth.Broker, logger *log.Logger) *SpotifyHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SpotifyHandler{spotify: spotify, broker: broker, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SpotifyHandler) Routes() []string {
	return []string{
		"GET /spotify/track_info",
		"GET /spotify/top-artists",
		"GET /spotify/top-tracks",
		"GET /spotify/user_info",
	}
}

func (h *SpotifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/spotify/track_info":
		h.handleTrackInfo(w, r)
	case "/spotify/top-artists":
		h.handleTopArtists(w, r)
	case "/spotify/top-tracks":
		h.handleTopTracks(w, r)
	case "/spotify/user_info":
		h.handleUserInfo(w, r)
	default:
		http.NotFound(w, r)
	}
}

// topItemParams reads the limit and time_range query parameters, falling
// back to the service defaults.
func topItemParams(r *http.Request) (int, string) {
	limit := services.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	return limit, r.URL.Query().Get("time_range")
}

func (h *SpotifyHandler) handleTrackInfo(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	artist := r.URL.Query().Get("artist")
	if track == "" || artist == "" {
		writeError(w, h.logger, fmt.Errorf("%w: track and artist query parameters are required", shared.ErrInvalidArgument))
		return
	}

	token, err := bearerToken(r, h.broker)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	info, err := h.spotify.SearchTrack(r.Context(), token, track, artist)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *SpotifyHandler) handleTopArtists(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r, h.broker)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	limit, timeRange := topItemParams(r)
	artists, err := h.spotify.TopArtists(r.Context(), token, limit, timeRange)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, artists)
}

func (h *SpotifyHandler) handleTopTracks(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r, h.broker)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	limit, timeRange := topItemParams(r)
	tracks, err := h.spotify.TopTracks(r.Context(), token, limit, timeRange)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

func (h *SpotifyHandler) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r, h.broker)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	stats, err := h.spotify.ListeningStats(r.Context(), token)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
