package credstore

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// cookieTTL matches the browser client's 24 hour cookie expiry.
const cookieTTL = 24 * time.Hour

// CookieFile stores each secret as a serialized HTTP cookie in its own file
// under the state directory. Cookies carry an absolute expiry and
// SameSite=Strict; an expired cookie reads as absent and is removed.
type CookieFile struct {
	dir     string
	enabled bool
	now     func() time.Time
}

// NewCookieFile creates a cookie-file medium rooted at dir. When enabled is
// false the medium reports unavailable and the store falls back.
func NewCookieFile(dir string, enabled bool) *CookieFile {
	return &CookieFile{dir: dir, enabled: enabled, now: time.Now}
}

// Available reports whether the state directory can be written to.
func (m *CookieFile) Available() bool {
	if !m.enabled || m.dir == "" {
		return false
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return false
	}
	return true
}

func (m *CookieFile) path(key string) string {
	return filepath.Join(m.dir, key+".cookie")
}

// Write serializes the secret as a cookie with a 24h expiry. The value is
// base64-encoded first; raw secrets may contain characters a cookie value
// cannot carry.
func (m *CookieFile) Write(key, value string) error {
	cookie := &http.Cookie{
		Name:     key,
		Value:    base64.URLEncoding.EncodeToString([]byte(value)),
		Path:     "/",
		Expires:  m.now().Add(cookieTTL),
		SameSite: http.SameSiteStrictMode,
	}

	if err := cookie.Valid(); err != nil {
		return fmt.Errorf("invalid cookie for %s: %w", key, err)
	}

	if err := os.WriteFile(m.path(key), []byte(cookie.String()), 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}

	return nil
}

// Read parses the cookie file for key. A missing or expired cookie reads as
// absent; an expired cookie file is removed on the way out.
func (m *CookieFile) Read(key string) (string, error) {
	data, err := os.ReadFile(m.path(key))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cookie file: %w", err)
	}

	cookie, err := http.ParseSetCookie(string(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse cookie file: %w", err)
	}

	if !cookie.Expires.IsZero() && !m.now().Before(cookie.Expires) {
		os.Remove(m.path(key))
		return "", nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return "", fmt.Errorf("failed to decode cookie value: %w", err)
	}

	return string(decoded), nil
}

// Remove deletes the cookie file for key. A missing file is a no-op.
func (m *CookieFile) Remove(key string) error {
	err := os.Remove(m.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}
