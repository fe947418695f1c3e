// package tasks implements long-running taste profile operations.
//
// The core abstraction is TasteEngine, which orchestrates preference enrichment,
// profile exports, and server data snapshots. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/services"
	"github.com/lmfernandez/tastify/internal/shared"
)

// TrackEnrichResult represents the result of enriching a single top track.
type TrackEnrichResult struct {
	Summary models.TrackSummary // Narrowed top-track record from the provider
	Info    *models.TrackInfo   // Enriched track info (nil if lookup failed)
	Skipped bool                // Already present in the user's preferences
	Error   error               // Error if enrichment failed
}

// EnrichResult contains all data from a preference enrichment run.
type EnrichResult struct {
	User        *models.User       // User after enrichment
	Matches     []TrackEnrichResult // Individual track results
	TotalTracks int                // Top tracks considered
	Enriched    int                // Preferences attached
	Skipped     int                // Tracks already in preferences
	Failed      int                // Lookups that failed
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// SnapshotResult contains all data fetched from a running tastify server.
type SnapshotResult struct {
	Health     any              // Health status
	Users      any              // Stored user profiles
	TopTracks  any              // Broker-authenticated top tracks
	TopArtists any              // Broker-authenticated top artists
	UserInfo   any              // Aggregated listening stats
	Errors     []EndpointResult // Failed endpoint fetches
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// TasteEngine defines long-running operations over a user's listening profile.
type TasteEngine interface {
	// Enrich fetches the user's top tracks and appends each one, fully
	// enriched, to the user's preference list. Tracks already present are
	// skipped.
	Enrich(ctx context.Context, progress chan<- ProgressUpdate, token, userID string, limit int, timeRange string) (*EnrichResult, error)

	// Export writes the listening profile across time ranges to disk using
	// a worker pool with rate limiting.
	Export(ctx context.Context, progress chan<- ProgressUpdate, token, owner string, opts ExportOpts) (*ExportResult, error)

	// Snapshot fetches all data from a running tastify server.
	Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotResult, error)
}

// UserStore is the slice of the user repository the engine needs.
type UserStore interface {
	Get(id string) (*models.User, error)
	AttachPreference(userID string, info models.TrackInfo) (*models.User, error)
}

// APIClient defines the interface for making API requests to a tastify server.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// ProfileEngine implements TasteEngine.
// Contains dependencies on the catalog service, the user store, and the API client.
type ProfileEngine struct {
	spotify services.Service
	users   UserStore
	api     APIClient
}

// NewProfileEngine creates a new ProfileEngine with the provided dependencies.
func NewProfileEngine(spotify services.Service, users UserStore, api APIClient) *ProfileEngine {
	return &ProfileEngine{
		spotify: spotify,
		users:   users,
		api:     api,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ProfileEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Enrich fetches the user's top tracks and attaches enriched preferences.
func (e *ProfileEngine) Enrich(ctx context.Context, progress chan<- ProgressUpdate, token, userID string, limit int, timeRange string) (*EnrichResult, error) {
	if e.spotify == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}
	if e.users == nil {
		return nil, fmt.Errorf("%w: user store not initialized", shared.ErrServiceUnavailable)
	}

	user, err := e.users.Get(userID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(user.Preferences))
	for _, pref := range user.Preferences {
		existing[shared.NormalizeTrackKey(pref.TrackInfo.TrackName, pref.TrackInfo.Artist)] = struct{}{}
	}

	timeRange = services.NormalizeTimeRange(timeRange)
	e.sendProgress(progress, fetchTopUpdate(1, 1, timeRange))

	topTracks, err := e.spotify.TopTracks(ctx, token, limit, timeRange)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch top tracks: %v", shared.ErrAPIRequest, err)
	}

	result := &EnrichResult{
		TotalTracks: len(topTracks),
		Matches:     make([]TrackEnrichResult, 0, len(topTracks)),
	}

	e.sendProgress(progress, searchTrackUpdate(0, len(topTracks), nil))

	for i, track := range topTracks {
		e.sendProgress(progress, searchTrackUpdate(i+1, len(topTracks), &track))

		if _, seen := existing[shared.NormalizeTrackKey(track.TrackName, track.Artist)]; seen {
			result.Skipped++
			result.Matches = append(result.Matches, TrackEnrichResult{Summary: track, Skipped: true})
			continue
		}

		info, err := e.spotify.SearchTrack(ctx, token, track.TrackName, track.Artist)
		if err != nil {
			result.Failed++
			result.Matches = append(result.Matches, TrackEnrichResult{Summary: track, Error: err})
			continue
		}

		user, err = e.users.AttachPreference(userID, *info)
		if err != nil {
			result.Failed++
			result.Matches = append(result.Matches, TrackEnrichResult{Summary: track, Info: info, Error: err})
			continue
		}

		existing[shared.NormalizeTrackKey(info.TrackName, info.Artist)] = struct{}{}
		result.Enriched++
		result.Matches = append(result.Matches, TrackEnrichResult{Summary: track, Info: info})
	}

	result.User = user
	e.sendProgress(progress, attachedUpdate(result.Enriched, result.TotalTracks, user))

	return result, nil
}

// Snapshot fetches all data from a running tastify server.
func (e *ProfileEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &SnapshotResult{
		Errors: []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "health", path: "/health", target: &result.Health, phase: FetchHealth, message: "Fetching health status..."},
		{name: "users", path: "/users", target: &result.Users, phase: FetchUsers, message: "Fetching users..."},
		{name: "top_tracks", path: "/spotify/top-tracks", target: &result.TopTracks, phase: FetchTop, message: "Fetching top tracks..."},
		{name: "top_artists", path: "/spotify/top-artists", target: &result.TopArtists, phase: FetchTop, message: "Fetching top artists..."},
		{name: "user_info", path: "/spotify/user_info", target: &result.UserInfo, phase: FetchUserInfo, message: "Fetching listening stats..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			} else {
				errMsg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s", errMsg),
			})
		} else {
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}
