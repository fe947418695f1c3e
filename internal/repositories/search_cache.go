package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/shared"
)

// SearchCacheRepository caches upstream track search results keyed by a
// normalized title|artist pair, sparing repeat lookups an API round trip.
type SearchCacheRepository struct {
	db *sql.DB
}

// NewSearchCacheRepository creates a new [SearchCacheRepository] with the given database connection
func NewSearchCacheRepository(db *sql.DB) *SearchCacheRepository {
	return &SearchCacheRepository{db: db}
}

// Get retrieves a cached search result for the given title and artist.
// The second return value reports whether a cached entry was found.
func (r *SearchCacheRepository) Get(title, artist string) (*models.TrackInfo, bool, error) {
	query := `
		SELECT track_name, artist, album, release_date, album_type
		FROM search_cache
		WHERE track_key = ?
	`

	var info models.TrackInfo
	err := r.db.QueryRow(query, shared.NormalizeTrackKey(title, artist)).
		Scan(&info.TrackName, &info.Artist, &info.Album, &info.ReleaseDate, &info.AlbumType)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query search cache: %w", err)
	}

	return &info, true, nil
}

// Put stores a search result, replacing any prior entry for the same
// title|artist pair.
func (r *SearchCacheRepository) Put(title, artist string, info models.TrackInfo) error {
	query := `
		INSERT INTO search_cache (id, track_key, track_name, artist, album, release_date, album_type, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_key) DO UPDATE SET
			track_name = excluded.track_name,
			artist = excluded.artist,
			album = excluded.album,
			release_date = excluded.release_date,
			album_type = excluded.album_type,
			cached_at = excluded.cached_at
	`

	_, err := r.db.Exec(query, shared.GenerateID(), shared.NormalizeTrackKey(title, artist),
		info.TrackName, info.Artist, info.Album, info.ReleaseDate, info.AlbumType, time.Now())
	if err != nil {
		return fmt.Errorf("failed to cache search result: %w", err)
	}

	return nil
}

// Purge removes entries cached before the given cutoff. Returns the number
// of entries removed.
func (r *SearchCacheRepository) Purge(before time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM search_cache WHERE cached_at < ?", before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge search cache: %w", err)
	}
	return result.RowsAffected()
}
