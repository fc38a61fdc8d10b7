package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/seren-dev/songhop/internal/cache"
	"github.com/seren-dev/songhop/internal/shared"
)

func TestProvider(t *testing.T) {
	t.Run("Rejected Bearer Call Tears Down The Session", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/user":
				w.Write([]byte(`{"user": {"id": "u1", "display_name": "Alice"}}`))
			default:
				http.Error(w, `{"error": "token expired"}`, http.StatusUnauthorized)
			}
		})

		store := newTestStore(t)
		if err := store.StoreToken("tok123"); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}

		nav := &fakeNav{}
		api := newTestAPI(t, handler)
		p := NewProvider(api, store, nav, shared.NewLogger(nil))
		defer p.Close()
		waitSettled(t, p.Spotify)

		if !p.Spotify.IsAuthenticated() {
			t.Fatal("expected warmed session")
		}

		p.Cache.Set(cache.KeyPlaylists, []string{"p1"})
		nav.To(RoutePlaylists, "")

		_, err := api.TopTracks(context.Background(), p.Spotify.Token())
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Fatalf("the original error must reach the call site, got %v", err)
		}

		if p.Spotify.IsAuthenticated() {
			t.Error("expected session torn down")
		}
		if tok, _ := store.RetrieveToken(); tok != "" {
			t.Error("expected token cleared")
		}
		if _, ok := p.Cache.Get(cache.KeyPlaylists); ok {
			t.Error("session-derived data must be evicted")
		}
		if nav.Current() != RouteLogin {
			t.Errorf("expected login, got %s", nav.Current())
		}
		if nav.lastNotice() != SessionExpiredNotice {
			t.Errorf("unexpected notice %q", nav.lastNotice())
		}
		if got := p.Paths.Consume(); got != RoutePlaylists {
			t.Errorf("expected interrupted route recorded, got %s", got)
		}
	})

	t.Run("Already At Login Stays Put", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "token expired"}`, http.StatusUnauthorized)
		})

		nav := &fakeNav{}
		api := newTestAPI(t, handler)
		p := NewProvider(api, newTestStore(t), nav, shared.NewLogger(nil))
		defer p.Close()
		waitSettled(t, p.Spotify)

		nav.To(RouteLogin, "")
		before := len(nav.visited())

		if _, err := api.TopTracks(context.Background(), "stale"); err == nil {
			t.Fatal("expected the call to fail")
		}

		if got := len(nav.visited()); got != before {
			t.Errorf("no redirect expected at the login entry point, got %v", nav.visited())
		}
		if got := p.Paths.Consume(); got != "" {
			t.Errorf("the login route must never be a return path, got %s", got)
		}
	})

	t.Run("Basic Authorized Failure Is Not A Session Event", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "invalid passphrase"}`, http.StatusUnauthorized)
		})

		nav := &fakeNav{}
		api := newTestAPI(t, handler)
		p := NewProvider(api, newTestStore(t), nav, shared.NewLogger(nil))
		defer p.Close()
		waitSettled(t, p.Spotify)

		nav.To(RouteAccountLogin, "")
		before := len(nav.visited())

		if err := api.VerifyAccount(context.Background(), "alice", "wrong words here now"); err == nil {
			t.Fatal("expected verification to fail")
		}

		if got := len(nav.visited()); got != before {
			t.Errorf("a rejected passphrase must not redirect, got %v", nav.visited())
		}
	})

	t.Run("Close Detaches The Interceptor", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "token expired"}`, http.StatusUnauthorized)
		})

		nav := &fakeNav{}
		api := newTestAPI(t, handler)
		p := NewProvider(api, newTestStore(t), nav, shared.NewLogger(nil))
		waitSettled(t, p.Spotify)
		p.Close()

		nav.To(RoutePlaylists, "")

		if _, err := api.TopTracks(context.Background(), "tok"); err == nil {
			t.Fatal("expected the call to fail")
		}

		if nav.Current() != RoutePlaylists {
			t.Errorf("a detached interceptor must not redirect, got %s", nav.Current())
		}
	})
}
