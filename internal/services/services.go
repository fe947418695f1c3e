package services

import (
	"context"
	"fmt"

	"github.com/lmfernandez/tastify/internal/models"
)

// Valid time ranges for top-item queries.
const (
	TimeRangeShort  = "short_term"
	TimeRangeMedium = "medium_term"
	TimeRangeLong   = "long_term"
)

// DefaultLimit is the item count used when a query omits one.
const DefaultLimit = 10

// Service defines upstream catalog queries against a music provider.
// Each call authenticates with the supplied bearer access token.
type Service interface {
	// TopArtists retrieves the user's most listened artists.
	TopArtists(ctx context.Context, token string, limit int, timeRange string) ([]models.ArtistSummary, error)

	// TopTracks retrieves the user's most listened tracks.
	TopTracks(ctx context.Context, token string, limit int, timeRange string) ([]models.TrackSummary, error)

	// SearchTrack looks up a single track by title and artist.
	// Returns the best match or an error when nothing matches.
	SearchTrack(ctx context.Context, token, title, artist string) (*models.TrackInfo, error)

	// ListeningStats aggregates the user's top tracks and artists.
	ListeningStats(ctx context.Context, token string) (*models.ListeningStats, error)

	// Name returns the name of the provider (e.g. "Spotify")
	Name() string
}

// UpstreamQueryError carries the status and body of a failed provider
// response so callers can relay it verbatim.
type UpstreamQueryError struct {
	Status int
	Body   string
}

func (e *UpstreamQueryError) Error() string {
	return fmt.Sprintf("upstream query failed with status %d: %s", e.Status, e.Body)
}

// NormalizeTimeRange maps an empty or unknown time range to the default.
func NormalizeTimeRange(timeRange string) string {
	switch timeRange {
	case TimeRangeShort, TimeRangeMedium, TimeRangeLong:
		return timeRange
	default:
		return TimeRangeMedium
	}
}

// NormalizeLimit clamps a requested item count to the provider's bounds.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > 50 {
		return 50
	}
	return limit
}
