// Package models defines the data model for the listening-preference service.
//
// [User] and [Preference] are the persisted entities of the user record
// store. [TrackInfo], [TrackSummary] and [ArtistSummary] are the narrowed
// records produced by the Spotify query functions; they carry only the
// fields the service exposes, not the full upstream objects.
package models
