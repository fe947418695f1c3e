package models

// TrackInfo is the narrowed record produced by a track search.
type TrackInfo struct {
	TrackName   string `json:"track_name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date"`
	AlbumType   string `json:"album_type"`
}

// TrackSummary is the narrowed record produced by the top-tracks endpoint.
type TrackSummary struct {
	TrackName string `json:"track_name"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
}

// ArtistSummary is the narrowed record produced by the top-artists endpoint.
type ArtistSummary struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// ListeningStats aggregates a user's top tracks and artists.
type ListeningStats struct {
	TopTracks  []TrackSummary  `json:"top_tracks"`
	TopArtists []ArtistSummary `json:"top_artists"`
}

// ProfileExport bundles listening stats for one time range, ready to be
// written out by the formatter package.
type ProfileExport struct {
	Owner     string         `json:"owner"`
	TimeRange string         `json:"time_range"`
	Stats     ListeningStats `json:"stats"`
}
