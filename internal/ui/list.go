package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/seren-dev/songhop/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem renders a generated playlist in the playlist browser.
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// trackItem renders a ranked listening-history entry.
type trackItem struct {
	track models.TopTrack
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.track.Rank, i.track.Title) }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}
