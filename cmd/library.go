package main

import (
	"context"
	"fmt"

	"github.com/seren-dev/songhop/internal/cache"
	"github.com/seren-dev/songhop/internal/guard"
	"github.com/seren-dev/songhop/internal/models"
	"github.com/seren-dev/songhop/internal/session"
	"github.com/urfave/cli/v3"
)

// Playlists lists the user's generated playlists, served from the session
// cache unless --refresh is set.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.settleSpotify()
	r.nav.Visit(session.RoutePlaylists)

	if r.spotifyGuard.Check(session.RoutePlaylists) != guard.Allow {
		return r.writePlain("Not signed in. Run 'songhop auth login' and try again.\n")
	}

	var playlists []models.Playlist
	if !cmd.Bool("refresh") {
		if cached, ok := r.provider.Cache.Get(cache.KeyPlaylists); ok {
			playlists, _ = cached.([]models.Playlist)
		}
	}

	if playlists == nil {
		var err error
		playlists, err = r.api.Playlists(ctx, "Bearer "+r.provider.Spotify.Token())
		if err != nil {
			return fmt.Errorf("failed to fetch playlists: %w", err)
		}
		r.provider.Cache.Set(cache.KeyPlaylists, playlists)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		if p.Genre != "" {
			r.writePlain("   Genre: %s\n", p.Genre)
		}
		r.writePlain("   Tracks: %d\n\n", p.TrackCount)
	}
	return nil
}

// TopTracks shows the user's listening history.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.settleSpotify()
	r.nav.Visit(session.RouteDashboard)

	if r.spotifyGuard.Check(session.RouteDashboard) != guard.Allow {
		return r.writePlain("Not signed in. Run 'songhop auth login' and try again.\n")
	}

	var tracks []models.TopTrack
	if !cmd.Bool("refresh") {
		if cached, ok := r.provider.Cache.Get(cache.KeyTopTracks); ok {
			tracks, _ = cached.([]models.TopTrack)
		}
	}

	if tracks == nil {
		var err error
		tracks, err = r.api.TopTracks(ctx, r.provider.Spotify.Token())
		if err != nil {
			return fmt.Errorf("failed to fetch top tracks: %w", err)
		}
		r.provider.Cache.Set(cache.KeyTopTracks, tracks)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	for _, track := range tracks {
		r.writePlain("%d. %s - %s\n", track.Rank, track.Artist, track.Title)
		if track.Album != "" {
			r.writePlain("   Album: %s\n", track.Album)
		}
	}
	return nil
}
