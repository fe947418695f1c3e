// Spotify Web API implementation of [Service]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AlbumType   string          `json:"album_type"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifyPaginated represents a paginated top-items or search response.
type SpotifyPaginated[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// SpotifyService implements [Service] against the Spotify Web API.
// It is stateless: callers supply the bearer token on every query.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithBaseURL points the service at a different API root.
func WithBaseURL(baseURL string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(client *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.httpClient = client }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger *log.Logger) SpotifyOption {
	return func(s *SpotifyService) { s.logger = logger }
}

// NewSpotifyService creates a Spotify catalog query service.
func NewSpotifyService(opts ...SpotifyOption) *SpotifyService {
	s := &SpotifyService{
		baseURL:    spotifyBaseURL,
		httpClient: http.DefaultClient,
		logger:     shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Spotify API and
// decodes the JSON response into result. A non-2xx response is returned
// as [*UpstreamQueryError] with the upstream body preserved.
func (s *SpotifyService) doRequest(ctx context.Context, token, endpoint string, result any) error {
	if token == "" {
		return fmt.Errorf("%w: no access token supplied", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamQueryError{Status: resp.StatusCode, Body: string(body)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context, token string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, token, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopArtists retrieves the user's most listened artists, narrowed to
// name and genres.
func (s *SpotifyService) TopArtists(ctx context.Context, token string, limit int, timeRange string) ([]models.ArtistSummary, error) {
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d&time_range=%s",
		NormalizeLimit(limit), NormalizeTimeRange(timeRange))

	var response SpotifyPaginated[SpotifyArtist]
	if err := s.doRequest(ctx, token, endpoint, &response); err != nil {
		return nil, err
	}

	artists := make([]models.ArtistSummary, 0, len(response.Items))
	for _, item := range response.Items {
		artists = append(artists, models.ArtistSummary{
			Name:   item.Name,
			Genres: item.Genres,
		})
	}

	return artists, nil
}

// TopTracks retrieves the user's most listened tracks, narrowed to
// track name, primary artist and album.
func (s *SpotifyService) TopTracks(ctx context.Context, token string, limit int, timeRange string) ([]models.TrackSummary, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d&time_range=%s",
		NormalizeLimit(limit), NormalizeTimeRange(timeRange))

	var response SpotifyPaginated[SpotifyTrack]
	if err := s.doRequest(ctx, token, endpoint, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackSummary, 0, len(response.Items))
	for _, item := range response.Items {
		summary := models.TrackSummary{
			TrackName: item.Name,
			Album:     item.Album.Name,
		}
		if len(item.Artists) > 0 {
			summary.Artist = item.Artists[0].Name
		}
		tracks = append(tracks, summary)
	}

	return tracks, nil
}

// SearchTrack looks up a single track by title and artist and returns
// the best match narrowed to a [models.TrackInfo].
func (s *SpotifyService) SearchTrack(ctx context.Context, token, title, artist string) (*models.TrackInfo, error) {
	if title == "" || artist == "" {
		return nil, fmt.Errorf("%w: track title and artist are required", shared.ErrInvalidArgument)
	}

	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=1", url.QueryEscape(query))

	var response struct {
		Tracks SpotifyPaginated[SpotifyTrack] `json:"tracks"`
	}
	if err := s.doRequest(ctx, token, endpoint, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: no match for %q by %q", shared.ErrTrackNotFound, title, artist)
	}

	match := response.Tracks.Items[0]
	info := &models.TrackInfo{
		TrackName:   match.Name,
		Album:       match.Album.Name,
		ReleaseDate: match.Album.ReleaseDate,
		AlbumType:   match.Album.AlbumType,
	}
	if len(match.Artists) > 0 {
		info.Artist = match.Artists[0].Name
	}

	s.logger.Debug("track matched", "track", info.TrackName, "artist", info.Artist)

	return info, nil
}

// ListeningStats aggregates the user's default top tracks and artists.
func (s *SpotifyService) ListeningStats(ctx context.Context, token string) (*models.ListeningStats, error) {
	tracks, err := s.TopTracks(ctx, token, DefaultLimit, TimeRangeMedium)
	if err != nil {
		return nil, err
	}

	artists, err := s.TopArtists(ctx, token, DefaultLimit, TimeRangeMedium)
	if err != nil {
		return nil, err
	}

	return &models.ListeningStats{
		TopTracks:  tracks,
		TopArtists: artists,
	}, nil
}

var _ Service = (*SpotifyService)(nil)
