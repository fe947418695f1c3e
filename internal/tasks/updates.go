package tasks

import (
	"fmt"

	"github.com/lmfernandez/tastify/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTop Phase = iota
	SearchTracks
	AttachPrefs
	FetchStats
	WriteExport
	FetchHealth
	FetchUsers
	FetchUserInfo
)

func (p Phase) String() string {
	switch p {
	case FetchTop:
		return "fetch_top"
	case SearchTracks:
		return "search_tracks"
	case AttachPrefs:
		return "attach_prefs"
	case FetchStats:
		return "fetch_stats"
	case WriteExport:
		return "write_export"
	case FetchHealth:
		return "fetch_health"
	case FetchUsers:
		return "fetch_users"
	case FetchUserInfo:
		return "fetch_user_info"
	default:
		return ""
	}
}

func fetchTopUpdate(step, total int, timeRange string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTop,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching top tracks (%s)...", timeRange),
	}
}

func searchTrackUpdate(step, total int, tr *models.TrackSummary) ProgressUpdate {
	if tr == nil {
		return ProgressUpdate{
			Phase:   SearchTracks,
			Step:    step,
			Total:   total,
			Message: "Enriching tracks...",
		}
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.TrackName),
	}
}

func attachedUpdate(step, total int, user *models.User) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AttachPrefs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Attached %d preferences to %s", step, user.Email),
		Data:    user,
	}
}

func fetchStatsUpdate(step, total int, timeRange string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchStats,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching listening stats (%s)...", step, total, timeRange),
	}
}

func exportCompletedUpdate(step, total int, timeRange string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, timeRange, filesCount),
	}
}

func exportFailedUpdate(step, total int, timeRange string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, timeRange, err),
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}
