package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lmfernandez/tastify/internal/shared"
)

func newSpotifyTestServer(t *testing.T, handler http.HandlerFunc) *SpotifyService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSpotifyService(WithBaseURL(srv.URL))
}

func writeJSON(w http.ResponseWriter, payload string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, payload)
}

func TestSpotifyService(t *testing.T) {
	t.Run("Name", func(t *testing.T) {
		srv := NewSpotifyService()
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}
	})

	t.Run("Missing Token", func(t *testing.T) {
		srv := NewSpotifyService()
		_, err := srv.TopTracks(context.Background(), "", 10, TimeRangeMedium)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("TopArtists", func(t *testing.T) {
		srv := newSpotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/top/artists" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer tok1" {
				t.Errorf("unexpected authorization header %q", got)
			}
			query := r.URL.Query()
			if query.Get("limit") != "5" {
				t.Errorf("expected limit 5, got %s", query.Get("limit"))
			}
			if query.Get("time_range") != "long_term" {
				t.Errorf("expected time_range long_term, got %s", query.Get("time_range"))
			}
			writeJSON(w, `{"items":[{"name":"Radiohead","genres":["art rock","alternative"]},{"name":"Björk","genres":["electronic"]}],"total":2}`)
		})

		artists, err := srv.TopArtists(context.Background(), "tok1", 5, TimeRangeLong)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].Name != "Radiohead" {
			t.Errorf("expected 'Radiohead', got %s", artists[0].Name)
		}
		if len(artists[0].Genres) != 2 || artists[0].Genres[0] != "art rock" {
			t.Errorf("unexpected genres %v", artists[0].Genres)
		}
	})

	t.Run("TopTracks", func(t *testing.T) {
		t.Run("Applies Defaults", func(t *testing.T) {
			srv := newSpotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me/top/tracks" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				query := r.URL.Query()
				if query.Get("limit") != "10" {
					t.Errorf("expected default limit 10, got %s", query.Get("limit"))
				}
				if query.Get("time_range") != "medium_term" {
					t.Errorf("expected default time_range medium_term, got %s", query.Get("time_range"))
				}
				writeJSON(w, `{"items":[{"name":"Weird Fishes","artists":[{"name":"Radiohead"}],"album":{"name":"In Rainbows"}}],"total":1}`)
			})

			tracks, err := srv.TopTracks(context.Background(), "tok1", 0, "")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(tracks) != 1 {
				t.Fatalf("expected 1 track, got %d", len(tracks))
			}
			track := tracks[0]
			if track.TrackName != "Weird Fishes" || track.Artist != "Radiohead" || track.Album != "In Rainbows" {
				t.Errorf("unexpected track %+v", track)
			}
		})

		t.Run("Upstream Error", func(t *testing.T) {
			srv := newSpotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"error":{"status":401,"message":"The access token expired"}}`)
			})

			_, err := srv.TopTracks(context.Background(), "stale", 10, TimeRangeMedium)

			var upstream *UpstreamQueryError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamQueryError, got %v", err)
			}
			if upstream.Status != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", upstream.Status)
			}
			if !strings.Contains(upstream.Body, "access token expired") {
				t.Errorf("expected upstream body preserved, got %q", upstream.Body)
			}
		})
	})

	t.Run("SearchTrack", func(t *testing.T) {
		t.Run("Best Match", func(t *testing.T) {
			srv := newSpotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				query := r.URL.Query()
				if query.Get("type") != "track" || query.Get("limit") != "1" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				if q := query.Get("q"); q != "track:Nude artist:Radiohead" {
					t.Errorf("unexpected search query %q", q)
				}
				writeJSON(w, `{"tracks":{"items":[{"name":"Nude","artists":[{"name":"Radiohead"}],"album":{"name":"In Rainbows","album_type":"album","release_date":"2007-10-10"}}],"total":1}}`)
			})

			info, err := srv.SearchTrack(context.Background(), "tok1", "Nude", "Radiohead")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if info.TrackName != "Nude" || info.Artist != "Radiohead" {
				t.Errorf("unexpected match %+v", info)
			}
			if info.Album != "In Rainbows" || info.ReleaseDate != "2007-10-10" || info.AlbumType != "album" {
				t.Errorf("unexpected album fields %+v", info)
			}
		})

		t.Run("No Match", func(t *testing.T) {
			srv := newSpotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, `{"tracks":{"items":[],"total":0}}`)
			})

			_, err := srv.SearchTrack(context.Background(), "tok1", "Nonexistent", "Nobody")
			if !errors.Is(err, shared.ErrTrackNotFound) {
				t.Errorf("expected ErrTrackNotFound, got %v", err)
			}
		})

		t.Run("Missing Arguments", func(t *testing.T) {
			srv := NewSpotifyService()
			_, err := srv.SearchTrack(context.Background(), "tok1", "", "Radiohead")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("ListeningStats", func(t *testing.T) {
		srv := newSpotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/me/top/tracks":
				writeJSON(w, `{"items":[{"name":"Holocene","artists":[{"name":"Bon Iver"}],"album":{"name":"Bon Iver, Bon Iver"}}]}`)
			case "/me/top/artists":
				writeJSON(w, `{"items":[{"name":"Bon Iver","genres":["indie folk"]}]}`)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		stats, err := srv.ListeningStats(context.Background(), "tok1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(stats.TopTracks) != 1 || stats.TopTracks[0].TrackName != "Holocene" {
			t.Errorf("unexpected top tracks %+v", stats.TopTracks)
		}
		if len(stats.TopArtists) != 1 || stats.TopArtists[0].Name != "Bon Iver" {
			t.Errorf("unexpected top artists %+v", stats.TopArtists)
		}
	})

	t.Run("UserProfile", func(t *testing.T) {
		srv := newSpotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			writeJSON(w, `{"id":"spotify-user","display_name":"Listener","email":"listener@example.com","country":"US","product":"premium"}`)
		})

		user, err := srv.UserProfile(context.Background(), "tok1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != "spotify-user" || user.DisplayName != "Listener" {
			t.Errorf("unexpected profile %+v", user)
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("TimeRange", func(t *testing.T) {
		cases := map[string]string{
			"":            TimeRangeMedium,
			"bogus":       TimeRangeMedium,
			"short_term":  TimeRangeShort,
			"medium_term": TimeRangeMedium,
			"long_term":   TimeRangeLong,
		}
		for input, want := range cases {
			if got := NormalizeTimeRange(input); got != want {
				t.Errorf("NormalizeTimeRange(%q) = %q, want %q", input, got, want)
			}
		}
	})

	t.Run("Limit", func(t *testing.T) {
		cases := map[int]int{0: 10, -3: 10, 1: 1, 10: 10, 50: 50, 99: 50}
		for input, want := range cases {
			if got := NormalizeLimit(input); got != want {
				t.Errorf("NormalizeLimit(%d) = %d, want %d", input, got, want)
			}
		}
	})
}
