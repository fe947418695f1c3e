package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/lmfernandez/tastify/internal/auth"
	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/repositories"
	"github.com/lmfernandez/tastify/internal/services"
	"github.com/lmfernandez/tastify/internal/shared"
)

// UsersHandler serves user profile CRUD and preference attachment.
// Implements the [Handler] interface for registration with a [Router].
type UsersHandler struct {
	repo    *repositories.UserRepository
	cache   *repositories.SearchCacheRepository
	spotify services.Service
	broker  *auth.Broker
	logger  *log.Logger
}

// NewUsersHandler creates a users handler. The cache may be nil to skip
// search result caching.
func NewUsersHandler(repo *repositories.UserRepository, cache *repositories.SearchCacheRepository, spotify services.Service, broker *auth.Broker, logger *log.Logger) *UsersHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &UsersHandler{repo: repo, cache: cache, spotify: spotify, broker: broker, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *UsersHandler) Routes() []string {
	return []string{
		"POST /user/create",
		"GET /users",
		"GET /user/{id}",
		"PUT /user/{id}",
		"DELETE /user/{id}",
		"PUT /user/add_preferences/{id}/{track}/{artist}",
	}
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/user/create":
		h.handleCreate(w, r)
	case r.URL.Path == "/users":
		h.handleList(w, r)
	case r.PathValue("track") != "":
		h.handleAddPreference(w, r)
	case r.Method == http.MethodGet:
		h.handleGet(w, r)
	case r.Method == http.MethodPut:
		h.handleUpdate(w, r)
	case r.Method == http.MethodDelete:
		h.handleDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

// userPayload is the request body for create and update operations.
type userPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *UsersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	user := models.NewUser(0, payload.Email, payload.Name)
	if err := user.Validate(); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	if err := h.repo.Create(user); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user created", "id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, user)
}

func (h *UsersHandler) handleList(w http.ResponseWriter, _ *http.Request) {
	users, err := h.repo.List(map[string]any{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	if payload.Name != "" {
		user.Name = payload.Name
	}
	if payload.Email != "" {
		user.Email = payload.Email
	}

	if err := h.repo.Update(user); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.Delete(id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// handleAddPreference enriches the named track via the catalog service and
// appends it to the user's preference list.
func (h *UsersHandler) handleAddPreference(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	track := r.PathValue("track")
	artist := r.PathValue("artist")

	info, err := h.lookupTrack(r, track, artist)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.repo.AttachPreference(id, *info)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("preference attached", "user", id, "track", info.TrackName, "artist", info.Artist)
	writeJSON(w, http.StatusOK, user)
}

// lookupTrack resolves track info through the search cache before falling
// back to an upstream query.
func (h *UsersHandler) lookupTrack(r *http.Request, track, artist string) (*models.TrackInfo, error) {
	if h.cache != nil {
		if cached, found, err := h.cache.Get(track, artist); err != nil {
			h.logger.Warn("search cache read failed", "error", err)
		} else if found {
			return cached, nil
		}
	}

	token, err := bearerToken(r, h.broker)
	if err != nil {
		return nil, err
	}

	info, err := h.spotify.SearchTrack(r.Context(), token, track, artist)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Put(track, artist, *info); err != nil {
			h.logger.Warn("search cache write failed", "error", err)
		}
	}

	return info, nil
}
