package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/lmfernandez/tastify/internal/shared"
	"github.com/urfave/cli/v3"
)

// SpotifyTopArtists lists the listener's top artists.
func (r *Runner) SpotifyTopArtists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	timeRange := cmd.String("time-range")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.spotify == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	token, err := r.resolveToken(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Infof("fetching top artists with limit %v range %v", limit, timeRange)

	artists, err := r.spotify.TopArtists(ctx, token, limit, timeRange)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(artists, pretty)
	}

	r.writePlain("Top %d artists (%s):\n\n", len(artists), timeRange)
	for i, a := range artists {
		r.writePlain("%d. %s\n", i+1, a.Name)
		if len(a.Genres) > 0 {
			r.writePlain("   Genres: %s\n", strings.Join(a.Genres, ", "))
		}
	}

	return nil
}

// SpotifyTopTracks lists the listener's top tracks.
func (r *Runner) SpotifyTopTracks(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	timeRange := cmd.String("time-range")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.spotify == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	token, err := r.resolveToken(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Infof("fetching top tracks with limit %v range %v", limit, timeRange)

	tracks, err := r.spotify.TopTracks(ctx, token, limit, timeRange)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Top %d tracks (%s):\n\n", len(tracks), timeRange)
	for i, t := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, t.Artist, t.TrackName)
		if t.Album != "" {
			r.writePlain("   Album: %s\n", t.Album)
		}
	}

	return nil
}

// SpotifySearch looks up a single track by title and artist.
func (r *Runner) SpotifySearch(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("track")
	artist := cmd.String("artist")
	useJSON := cmd.Bool("json")

	if r.spotify == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	token, err := r.resolveToken(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Infof("searching for %v by %v", title, artist)

	info, err := r.spotify.SearchTrack(ctx, token, title, artist)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(info, true)
	}

	r.writePlain("✓ Match found\n")
	r.writePlain("  Track: %s\n", info.TrackName)
	r.writePlain("  Artist: %s\n", info.Artist)
	if info.Album != "" {
		r.writePlain("  Album: %s (%s)\n", info.Album, info.AlbumType)
	}
	if info.ReleaseDate != "" {
		r.writePlain("  Released: %s\n", info.ReleaseDate)
	}

	return nil
}
