// Package credstore persists secret material across runs.
//
// Two media back the store. The preferred medium serializes each secret as
// an HTTP cookie in a file under the state directory, giving it an explicit
// 24 hour expiry and strict same-site scoping. When that medium is
// unavailable (or disabled), secrets fall back to the sqlite key-value
// table, which carries no expiry.
//
// The medium is selected on every call, so a secret written while cookies
// were enabled can still be cleared after they are disabled. Absence is a
// normal, representable state: Retrieve returns an empty string for a
// missing secret and Clear on a missing secret is a no-op.
package credstore

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/models"
)

// Slot names for the secrets the store knows about.
const (
	SlotToken             = "token"
	SlotAccountID         = "account_user_id"
	SlotAccountPassphrase = "account_passphrase"
	SlotReturnPath        = "pending_return_path"
)

// Medium is a storage backend for secrets.
type Medium interface {
	Write(key, value string) error
	Read(key string) (string, error)
	Remove(key string) error
	Available() bool
}

// Store persists secrets using the best available [Medium].
type Store struct {
	primary  Medium
	fallback Medium
	logger   *log.Logger
}

// New creates a [Store] with the given primary and fallback media.
func New(primary, fallback Medium, logger *log.Logger) *Store {
	return &Store{primary: primary, fallback: fallback, logger: logger}
}

// medium returns the medium to use for the next operation.
func (s *Store) medium() Medium {
	if s.primary != nil && s.primary.Available() {
		return s.primary
	}
	return s.fallback
}

// Store writes a secret under the given slot.
func (s *Store) Store(slot, secret string) error {
	if err := s.medium().Write(slot, secret); err != nil {
		return fmt.Errorf("failed to store %s: %w", slot, err)
	}
	return nil
}

// Retrieve reads the secret under the given slot. A missing secret returns
// an empty string and no error.
func (s *Store) Retrieve(slot string) (string, error) {
	value, err := s.medium().Read(slot)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve %s: %w", slot, err)
	}
	return value, nil
}

// Clear removes the secret from every medium that might hold it. The medium
// used for a write may differ from the one visible now, so both are
// attempted; a missing value or unavailable medium is a no-op.
func (s *Store) Clear(slot string) {
	for _, m := range []Medium{s.primary, s.fallback} {
		if m == nil || !m.Available() {
			continue
		}
		if err := m.Remove(slot); err != nil {
			s.logger.Debug("clear skipped", "slot", slot, "error", err)
		}
	}
}

// StoreToken writes the delegated session's bearer token.
func (s *Store) StoreToken(token string) error {
	return s.Store(SlotToken, token)
}

// RetrieveToken reads the delegated session's bearer token, empty when absent.
func (s *Store) RetrieveToken() (string, error) {
	return s.Retrieve(SlotToken)
}

// ClearToken removes the delegated session's bearer token.
func (s *Store) ClearToken() {
	s.Clear(SlotToken)
}

// StoreCredentials writes a direct account's user id and passphrase.
// The two slots are written together; if the second write fails the first
// is rolled back so a half-written credential never exists.
func (s *Store) StoreCredentials(c models.Credentials) error {
	if !c.Valid() {
		return fmt.Errorf("refusing to store incomplete credentials")
	}

	if err := s.Store(SlotAccountID, c.UserID); err != nil {
		return err
	}
	if err := s.Store(SlotAccountPassphrase, c.Passphrase); err != nil {
		s.Clear(SlotAccountID)
		return err
	}

	return nil
}

// RetrieveCredentials reads the direct account credentials. The pair is only
// returned when both halves are present.
func (s *Store) RetrieveCredentials() (models.Credentials, bool) {
	userID, err := s.Retrieve(SlotAccountID)
	if err != nil {
		s.logger.Debug("credential read failed", "error", err)
		return models.Credentials{}, false
	}

	passphrase, err := s.Retrieve(SlotAccountPassphrase)
	if err != nil {
		s.logger.Debug("credential read failed", "error", err)
		return models.Credentials{}, false
	}

	c := models.Credentials{UserID: userID, Passphrase: passphrase}
	if !c.Valid() {
		return models.Credentials{}, false
	}

	return c, true
}

// ClearCredentials removes both halves of the direct account credentials.
func (s *Store) ClearCredentials() {
	s.Clear(SlotAccountID)
	s.Clear(SlotAccountPassphrase)
}
