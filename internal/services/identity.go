package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/seren-dev/songhop/internal/models"
	"github.com/seren-dev/songhop/internal/shared"
)

// FetchProfile retrieves the user profile behind a delegated bearer token.
func (c *Client) FetchProfile(ctx context.Context, token string) (*models.Profile, error) {
	var response struct {
		User models.Profile `json:"user"`
	}

	_, err := c.do(ctx, c.bearerClient(ctx, token), http.MethodGet, "/api/user", "", nil, &response)
	if err != nil {
		return nil, err
	}

	return &response.User, nil
}

// DeleteAccount deletes the delegated user's account and all server-side data.
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	_, err := c.do(ctx, c.bearerClient(ctx, token), http.MethodDelete, "/api/user/account", "", nil, nil)
	return err
}

// RegisterAccount creates a direct account. The server issues the passphrase;
// it is returned exactly once. A duplicate user id yields [shared.ErrConflict].
func (c *Client) RegisterAccount(ctx context.Context, userID string) (*models.Registration, error) {
	request := struct {
		UserID string `json:"user_id"`
	}{UserID: userID}

	var registration models.Registration
	_, err := c.do(ctx, nil, http.MethodPost, "/api/auth/account/register", "", request, &registration)
	if err != nil {
		return nil, err
	}

	return &registration, nil
}

// VerifyAccount checks a direct account's credentials. Rejected credentials
// yield [shared.ErrVerificationFailed].
func (c *Client) VerifyAccount(ctx context.Context, userID, passphrase string) error {
	request := struct {
		UserID     string `json:"user_id"`
		Passphrase string `json:"passphrase"`
	}{UserID: userID, Passphrase: passphrase}

	_, err := c.do(ctx, nil, http.MethodPost, "/api/auth/account/verify", "", request, nil)
	if errors.Is(err, shared.ErrUnauthorized) {
		return shared.ErrVerificationFailed
	}

	return err
}

// Playlists retrieves the current user's generated playlists. The auth
// header decides which identity scheme the call runs under.
func (c *Client) Playlists(ctx context.Context, authHeader string) ([]models.Playlist, error) {
	var response struct {
		Playlists []models.Playlist `json:"playlists"`
	}

	_, err := c.do(ctx, nil, http.MethodGet, "/api/user/playlists", authHeader, nil, &response)
	if err != nil {
		return nil, err
	}

	return response.Playlists, nil
}

// TopTracks retrieves the user's listening history for the graph views.
func (c *Client) TopTracks(ctx context.Context, token string) ([]models.TopTrack, error) {
	var response struct {
		Tracks []models.TopTrack `json:"tracks"`
	}

	_, err := c.do(ctx, c.bearerClient(ctx, token), http.MethodGet, "/api/user/top-tracks", "", nil, &response)
	if err != nil {
		return nil, err
	}

	return response.Tracks, nil
}
