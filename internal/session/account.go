package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/credstore"
	"github.com/seren-dev/songhop/internal/models"
	"github.com/seren-dev/songhop/internal/services"
	"github.com/seren-dev/songhop/internal/shared"
)

// AccountManager owns the direct-credential session.
//
// Presence of a stored user id / passphrase pair is the whole authentication
// predicate: restoring a session needs no network round trip, and the server
// is only consulted when credentials are verified or an account is created.
// Nothing expires client-side; a revoked passphrase surfaces on the next
// authenticated call and stays that call's problem.
type AccountManager struct {
	store  *credstore.Store
	api    *services.Client
	nav    Navigator
	logger *log.Logger

	mu         sync.Mutex
	generation uint64
	loggedIn   bool
	userID     string
	loading    bool
}

// NewAccountManager creates the manager and resolves the initial state
// synchronously from the credential store.
func NewAccountManager(store *credstore.Store, api *services.Client, nav Navigator, logger *log.Logger) *AccountManager {
	m := &AccountManager{
		store:  store,
		api:    api,
		nav:    nav,
		logger: logger.With("session", "account"),
	}

	if creds, ok := store.RetrieveCredentials(); ok {
		m.loggedIn = true
		m.userID = creds.UserID
	}

	return m
}

// IsAuthenticated reports whether a credential pair is on record.
func (m *AccountManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// IsLoading reports whether the initial state is still being resolved. The
// store resolves synchronously, so this settles before the manager is ever
// observable; it exists for the guard capability surface.
func (m *AccountManager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// UserID returns the logged-in user id, empty when logged out.
func (m *AccountManager) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID
}

// BasicHeader returns the Authorization header for the stored credentials,
// empty when logged out.
func (m *AccountManager) BasicHeader() string {
	creds, ok := m.store.RetrieveCredentials()
	if !ok {
		return ""
	}
	return creds.BasicHeader()
}

// Register creates a new account. On success the server-issued passphrase
// comes back exactly once and the credentials are stored. A duplicate user
// id yields [shared.ErrConflict].
func (m *AccountManager) Register(ctx context.Context, userID string) (*models.Registration, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", shared.ErrInvalidInput)
	}

	gen := m.currentGeneration()

	registration, err := m.api.RegisterAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	creds := models.Credentials{UserID: registration.UserID, Passphrase: registration.Passphrase}
	if !m.commit(gen, creds) {
		return nil, fmt.Errorf("%w: session changed during registration", shared.ErrNotAuthenticated)
	}

	m.logger.Info("registered", "user_id", registration.UserID)
	return registration, nil
}

// Login verifies credentials against the server. It reports success as a
// boolean so callers can render an inline failure message; a transport
// failure and a wrong passphrase deliberately look the same here, differing
// only in the log line.
func (m *AccountManager) Login(ctx context.Context, userID, passphrase string) bool {
	gen := m.currentGeneration()

	if err := m.api.VerifyAccount(ctx, userID, passphrase); err != nil {
		if errors.Is(err, shared.ErrVerificationFailed) {
			m.logger.Warn("login rejected", "user_id", userID)
		} else {
			m.logger.Error("login failed", "user_id", userID, "error", err)
		}
		return false
	}

	if !m.commit(gen, models.Credentials{UserID: userID, Passphrase: passphrase}) {
		m.logger.Warn("discarding stale login result", "user_id", userID)
		return false
	}

	m.logger.Info("logged in", "user_id", userID)
	return true
}

// Logout clears the stored credentials and returns to this scheme's login
// entry point.
func (m *AccountManager) Logout() {
	m.mu.Lock()
	m.generation++
	m.loggedIn = false
	m.userID = ""
	m.mu.Unlock()

	m.store.ClearCredentials()
	m.logger.Info("logged out")
	m.nav.To(RouteAccountLogin, "")
}

func (m *AccountManager) currentGeneration() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// commit persists credentials and flips the state to logged-in, unless a
// logout ran while the verification was in flight; a stale success must not
// resurrect an evicted session.
func (m *AccountManager) commit(gen uint64, creds models.Credentials) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return false
	}

	if err := m.store.StoreCredentials(creds); err != nil {
		m.logger.Error("failed to store credentials", "error", err)
		return false
	}

	m.loggedIn = true
	m.userID = creds.UserID
	return true
}
