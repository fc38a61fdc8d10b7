package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/cache"
	"github.com/seren-dev/songhop/internal/credstore"
	"github.com/seren-dev/songhop/internal/models"
	"github.com/seren-dev/songhop/internal/services"
	"github.com/seren-dev/songhop/internal/shared"
)

// SessionExpiredNotice is shown at the login entry point after a rejected
// delegated session.
const SessionExpiredNotice = "Your session has expired. Please log in again."

// SpotifyManager owns the delegated session obtained through the Spotify
// authorization redirect.
//
// The resolved profile lives in the session cache under [cache.KeyUser] and
// never goes stale on its own; it is evicted on logout, account deletion,
// or a rejected session. A cached profile implies a token in the credential
// store — the profile is only ever seeded after the token is written, and
// any teardown clears the token before nulling the profile.
type SpotifyManager struct {
	store  *credstore.Store
	cache  *cache.QueryCache
	api    *services.Client
	nav    Navigator
	paths  *ReturnPaths
	logger *log.Logger

	mu         sync.Mutex
	generation uint64
	loading    bool
}

// NewSpotifyManager creates the manager. When a token is already on record
// the profile cache is warmed in the background, so a route guard usually
// finds the session resolved without waiting on a round trip.
func NewSpotifyManager(store *credstore.Store, qc *cache.QueryCache, api *services.Client, nav Navigator, paths *ReturnPaths, logger *log.Logger) *SpotifyManager {
	m := &SpotifyManager{
		store:  store,
		cache:  qc,
		api:    api,
		nav:    nav,
		paths:  paths,
		logger: logger.With("session", "spotify"),
	}

	token, err := store.RetrieveToken()
	if err != nil {
		m.logger.Warn("failed to read stored token", "error", err)
	}

	if token == "" {
		qc.Set(cache.KeyUser, (*models.Profile)(nil))
		return m
	}

	m.loading = true
	go m.warm(token)

	return m
}

// warm resolves the profile for an already-stored token.
func (m *SpotifyManager) warm(token string) {
	gen := m.currentGeneration()

	profile, err := m.api.FetchProfile(context.Background(), token)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false

	// A logout or rejected session won the race; its view stands.
	if gen != m.generation {
		return
	}

	if err != nil {
		m.logger.Warn("profile warm failed", "error", err)
		m.cache.Set(cache.KeyUser, (*models.Profile)(nil))
		return
	}

	m.cache.Set(cache.KeyUser, profile)
	m.logger.Debug("profile warmed", "user_id", profile.ID)
}

// User returns the cached profile, nil when there is no session.
func (m *SpotifyManager) User() *models.Profile {
	value, ok := m.cache.Get(cache.KeyUser)
	if !ok {
		return nil
	}
	profile, _ := value.(*models.Profile)
	return profile
}

// IsAuthenticated reports whether a profile is resolved.
func (m *SpotifyManager) IsAuthenticated() bool {
	return m.User() != nil
}

// IsLoading reports whether the initial profile warm is still in flight.
func (m *SpotifyManager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Token returns the stored bearer token, empty when absent.
func (m *SpotifyManager) Token() string {
	token, err := m.store.RetrieveToken()
	if err != nil {
		m.logger.Warn("failed to read token", "error", err)
		return ""
	}
	return token
}

// HandleAuthCallback processes the query string the service redirected back
// with. Provider errors propagate to the login view verbatim; everything
// else that can go wrong collapses into one generic message there. A
// well-formed payload commits the session and navigates to the pending
// return path, falling back to the dashboard.
func (m *SpotifyManager) HandleAuthCallback(query url.Values) {
	if errMsg := query.Get("error"); errMsg != "" {
		m.logger.Warn("authorization rejected", "error", errMsg)
		m.nav.To(RouteLogin, errMsg)
		return
	}

	encoded := query.Get("data")
	if encoded == "" {
		m.nav.To(RouteLogin, "No authentication data received")
		return
	}

	result := decodeCallback(encoded)
	if result.err != nil {
		m.logger.Error("callback rejected", "error", result.err)
		m.nav.To(RouteLogin, shared.ErrMalformedCallback.Error())
		return
	}

	if err := m.Login(result.profile, result.token); err != nil {
		m.logger.Error("failed to commit session", "error", err)
		m.nav.To(RouteLogin, shared.ErrMalformedCallback.Error())
		return
	}

	dest := m.paths.Consume()
	if dest == "" {
		dest = RouteDashboard
	}
	m.nav.To(dest, "")
}

// Login commits a resolved session: token to the credential store first,
// then the profile into the cache. It does not navigate; the callback
// handler (or any future direct-login path) decides where to go.
func (m *SpotifyManager) Login(profile *models.Profile, token string) error {
	if profile == nil || token == "" {
		return fmt.Errorf("%w: incomplete session", shared.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.StoreToken(token); err != nil {
		return err
	}

	m.loading = false
	m.cache.Set(cache.KeyUser, profile)
	m.logger.Info("logged in", "user_id", profile.ID)
	return nil
}

// Logout tears the session down and returns to the login entry point.
func (m *SpotifyManager) Logout() {
	m.Invalidate()
	m.logger.Info("logged out")
	m.nav.To(RouteLogin, "")
}

// Invalidate clears the token and every piece of session-derived data
// without navigating. The interceptor path uses it so the redirect can
// carry its own message.
func (m *SpotifyManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.loading = false
	m.store.ClearToken()
	// Cached playlists and tracks belong to the session that just ended; a
	// later login on this device must not see them.
	m.cache.EvictAll()
	m.cache.Set(cache.KeyUser, (*models.Profile)(nil))
}

// DeleteAccount removes the account server-side, then tears down the local
// session. A failed deletion leaves the session fully intact — deletion
// failure is not session invalidity.
func (m *SpotifyManager) DeleteAccount(ctx context.Context) error {
	token := m.Token()
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	if err := m.api.DeleteAccount(ctx, token); err != nil {
		m.logger.Error("account deletion failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrDeletionFailed, err)
	}

	m.Invalidate()
	m.logger.Info("account deleted")
	m.nav.To(RouteLogin, "Your account has been deleted.")
	return nil
}

func (m *SpotifyManager) currentGeneration() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}
