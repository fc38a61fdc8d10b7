package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/seren-dev/songhop/internal/cache"
	"github.com/seren-dev/songhop/internal/credstore"
	"github.com/seren-dev/songhop/internal/services"
	"github.com/seren-dev/songhop/internal/shared"
)

type spotifyEnv struct {
	store *credstore.Store
	cache *cache.QueryCache
	nav   *fakeNav
	paths *ReturnPaths
	m     *SpotifyManager
}

func newSpotifyEnv(t *testing.T, handler http.Handler) *spotifyEnv {
	t.Helper()

	store := newTestStore(t)
	return newSpotifyEnvWithStore(t, handler, store)
}

func newSpotifyEnvWithStore(t *testing.T, handler http.Handler, store *credstore.Store) *spotifyEnv {
	t.Helper()

	var api *services.Client
	if handler != nil {
		api = newTestAPI(t, handler)
	} else {
		api = newTestAPI(t, http.NotFoundHandler())
	}

	logger := shared.NewLogger(nil)
	nav := &fakeNav{}
	qc := cache.New()
	paths := NewReturnPaths(store, logger)
	m := NewSpotifyManager(store, qc, api, nav, paths, logger)
	waitSettled(t, m)

	return &spotifyEnv{store: store, cache: qc, nav: nav, paths: paths, m: m}
}

const validPayload = `{"user": {"id": "u1", "display_name": "Alice"}, "token": "tok123"}`

func TestSpotifyManager(t *testing.T) {
	t.Run("Starts Logged Out Without Token", func(t *testing.T) {
		env := newSpotifyEnv(t, nil)

		if env.m.IsAuthenticated() {
			t.Error("expected no session")
		}
		if env.m.User() != nil {
			t.Error("expected nil profile")
		}
	})

	t.Run("Warms Profile For Stored Token", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.StoreToken("tok123"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok123" {
				t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"user": {"id": "u1", "display_name": "Alice"}}`))
		})

		env := newSpotifyEnvWithStore(t, handler, store)

		if !env.m.IsAuthenticated() {
			t.Fatal("expected warmed session")
		}
		if env.m.User().DisplayName != "Alice" {
			t.Errorf("unexpected profile %+v", env.m.User())
		}
	})

	t.Run("Invalid Token Yields Null Profile", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.StoreToken("stale"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "expired"}`, http.StatusUnauthorized)
		})

		env := newSpotifyEnvWithStore(t, handler, store)

		if env.m.IsAuthenticated() {
			t.Error("an invalid token must never yield a profile")
		}
	})

	t.Run("HandleAuthCallback", func(t *testing.T) {
		t.Run("Provider Error Propagates To Login", func(t *testing.T) {
			env := newSpotifyEnv(t, nil)

			env.m.HandleAuthCallback(url.Values{"error": {"access_denied"}})

			if env.nav.Current() != RouteLogin {
				t.Errorf("expected login, got %s", env.nav.Current())
			}
			if env.nav.lastNotice() != "access_denied" {
				t.Errorf("expected provider message, got %q", env.nav.lastNotice())
			}
			if tok, _ := env.store.RetrieveToken(); tok != "" {
				t.Error("no token may be stored on a rejected authorization")
			}
		})

		t.Run("Missing Data Shows Generic Message", func(t *testing.T) {
			env := newSpotifyEnv(t, nil)

			env.m.HandleAuthCallback(url.Values{})

			if env.nav.Current() != RouteLogin {
				t.Errorf("expected login, got %s", env.nav.Current())
			}
			if env.nav.lastNotice() != "No authentication data received" {
				t.Errorf("unexpected notice %q", env.nav.lastNotice())
			}
		})

		t.Run("Malformed Payload Leaves Store Unchanged", func(t *testing.T) {
			env := newSpotifyEnv(t, nil)

			payload := encodePayload(t, `{"user": {"id": "u1"}}`) // no token
			env.m.HandleAuthCallback(url.Values{"data": {payload}})

			if env.nav.Current() != RouteLogin {
				t.Errorf("expected login, got %s", env.nav.Current())
			}
			if env.nav.lastNotice() != shared.ErrMalformedCallback.Error() {
				t.Errorf("expected generic message, got %q", env.nav.lastNotice())
			}
			if tok, _ := env.store.RetrieveToken(); tok != "" {
				t.Error("credential store must be unchanged")
			}
			if env.m.IsAuthenticated() {
				t.Error("no session may be committed")
			}
		})

		t.Run("Well Formed Payload Commits And Lands On Dashboard", func(t *testing.T) {
			env := newSpotifyEnv(t, nil)

			env.m.HandleAuthCallback(url.Values{"data": {encodePayload(t, validPayload)}})

			if !env.m.IsAuthenticated() {
				t.Fatal("expected committed session")
			}
			if tok, _ := env.store.RetrieveToken(); tok != "tok123" {
				t.Errorf("expected stored token, got %q", tok)
			}
			if env.nav.Current() != RouteDashboard {
				t.Errorf("expected dashboard, got %s", env.nav.Current())
			}
		})

		t.Run("Pending Return Path Wins Over Dashboard", func(t *testing.T) {
			env := newSpotifyEnv(t, nil)
			env.paths.RecordPersistent(RoutePlaylists)

			env.m.HandleAuthCallback(url.Values{"data": {encodePayload(t, validPayload)}})

			if env.nav.Current() != RoutePlaylists {
				t.Errorf("expected return path, got %s", env.nav.Current())
			}

			// The path is consumed; a second login goes to the default view.
			env.m.HandleAuthCallback(url.Values{"data": {encodePayload(t, validPayload)}})
			if env.nav.Current() != RouteDashboard {
				t.Errorf("return path must be consumed at most once, got %s", env.nav.Current())
			}
		})
	})

	t.Run("Login Rejects Incomplete Session", func(t *testing.T) {
		env := newSpotifyEnv(t, nil)

		if err := env.m.Login(nil, "tok"); err == nil {
			t.Error("expected error for nil profile")
		}
		if tok, _ := env.store.RetrieveToken(); tok != "" {
			t.Error("no token may be written for an incomplete session")
		}
	})

	t.Run("Logout Clears Token And Derived Data", func(t *testing.T) {
		env := newSpotifyEnv(t, nil)
		env.m.HandleAuthCallback(url.Values{"data": {encodePayload(t, validPayload)}})
		env.cache.Set(cache.KeyPlaylists, []string{"p1"})

		env.m.Logout()

		if env.m.IsAuthenticated() {
			t.Error("expected logged-out state")
		}
		if tok, _ := env.store.RetrieveToken(); tok != "" {
			t.Error("expected token cleared")
		}
		if _, ok := env.cache.Get(cache.KeyPlaylists); ok {
			t.Error("session-derived data must be evicted on logout")
		}
		if env.nav.Current() != RouteLogin {
			t.Errorf("expected login, got %s", env.nav.Current())
		}
	})

	t.Run("DeleteAccount", func(t *testing.T) {
		t.Run("Failure Leaves Session Intact", func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "boom"}`, http.StatusInternalServerError)
			})

			env := newSpotifyEnv(t, handler)
			env.m.HandleAuthCallback(url.Values{"data": {encodePayload(t, validPayload)}})

			err := env.m.DeleteAccount(context.Background())
			if !errors.Is(err, shared.ErrDeletionFailed) {
				t.Fatalf("expected ErrDeletionFailed, got %v", err)
			}

			if !env.m.IsAuthenticated() {
				t.Error("deletion failure must not log the user out")
			}
			if tok, _ := env.store.RetrieveToken(); tok == "" {
				t.Error("token must survive a failed deletion")
			}
		})

		t.Run("Success Tears Down And Confirms", func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			env := newSpotifyEnv(t, handler)
			env.m.HandleAuthCallback(url.Values{"data": {encodePayload(t, validPayload)}})

			if err := env.m.DeleteAccount(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if env.m.IsAuthenticated() {
				t.Error("expected session torn down")
			}
			if env.nav.Current() != RouteLogin {
				t.Errorf("expected login, got %s", env.nav.Current())
			}
			if env.nav.lastNotice() == "" {
				t.Error("expected a confirmation message")
			}
		})

		t.Run("Without Session", func(t *testing.T) {
			env := newSpotifyEnv(t, nil)

			if err := env.m.DeleteAccount(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})
}
