package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/lmfernandez/tastify/internal/models"
)

var (
	_ list.Item = userItem{}
	_ list.Item = trackItem{}
)

// userItem wraps [models.User] to implement [list.Item].
type userItem struct {
	user *models.User
}

func (i userItem) FilterValue() string { return i.user.Name }
func (i userItem) Title() string       { return i.user.Name }
func (i userItem) Description() string {
	desc := i.user.Email
	if n := len(i.user.Preferences); n > 0 {
		desc = fmt.Sprintf("%s • %d preferences", desc, n)
	}
	return desc
}

// trackItem wraps [models.TrackSummary] to implement [list.Item].
type trackItem struct {
	track models.TrackSummary
}

func (i trackItem) FilterValue() string { return i.track.TrackName }
func (i trackItem) Title() string       { return i.track.TrackName }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}
