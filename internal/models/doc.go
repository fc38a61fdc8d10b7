// Package models defines the domain types exchanged with the SongHop service.
//
// Types fall into two categories:
//
// 1. Identity types owned by the session layer:
//   - [Profile] : the resolved Spotify user behind a delegated session
//   - [Credentials] : the user id / passphrase pair behind a direct session
//   - [Registration] : the one-time result of creating a direct account
//
// 2. Session-derived data: anything fetched with a live session and cached
// client-side. All of it must be evicted when the session ends.
//   - [Playlist] : a generated playlist belonging to the current user
//   - [TopTrack] : an entry from the user's listening history
package models
