package models

import (
	"encoding/base64"
	"fmt"
)

// Profile represents the Spotify user profile behind a delegated session.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	URI         string `json:"uri"`
	Country     string `json:"country"`
	Image       string `json:"profile_image"`
}

// Credentials represents a direct account's user id and passphrase.
//
// Both fields are required together; a value missing either is not a
// credential and must never be stored.
type Credentials struct {
	UserID     string `json:"user_id"`
	Passphrase string `json:"passphrase"`
}

// Valid reports whether both fields are present.
func (c Credentials) Valid() bool {
	return c.UserID != "" && c.Passphrase != ""
}

// BasicHeader returns the Authorization header value for these credentials.
func (c Credentials) BasicHeader() string {
	pair := fmt.Sprintf("%s:%s", c.UserID, c.Passphrase)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(pair))
}

// Registration is the one-time result of creating a direct account. The
// passphrase is server-issued and displayed once, never recoverable.
type Registration struct {
	UserID     string `json:"user_id"`
	Passphrase string `json:"passphrase"`
}

// Playlist represents a generated playlist for the current user.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	TrackCount  int    `json:"track_count"`
	URI         string `json:"uri"`
}

// TopTrack represents an entry from the user's listening history.
type TopTrack struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Rank   int    `json:"rank"`
	URI    string `json:"uri"`
}
