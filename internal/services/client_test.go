package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seren-dev/songhop/internal/shared"
	tu "github.com/seren-dev/songhop/internal/testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, srv.Client(), 0, shared.NewLogger(nil))
}

func TestClient(t *testing.T) {
	t.Run("FetchProfile", func(t *testing.T) {
		t.Run("Sends Bearer Header", func(t *testing.T) {
			var gotAuth string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"user": {"id": "u1", "display_name": "Alice", "email": "a@example.com", "country": "US"}}`))
			}))

			profile, err := client.FetchProfile(context.Background(), "tok123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotAuth != "Bearer tok123" {
				t.Errorf("expected bearer header, got %q", gotAuth)
			}
			if profile.ID != "u1" || profile.DisplayName != "Alice" {
				t.Errorf("unexpected profile: %+v", profile)
			}
		})

		t.Run("Maps 401", func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "token expired"}`, http.StatusUnauthorized)
			}))

			_, err := client.FetchProfile(context.Background(), "stale")
			if !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	})

	t.Run("RegisterAccount", func(t *testing.T) {
		t.Run("Returns Server Issued Passphrase", func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/account/register" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"user_id": "alice", "passphrase": "river stone amber falls"}`))
			}))

			reg, err := client.RegisterAccount(context.Background(), "alice")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if reg.UserID != "alice" || reg.Passphrase == "" {
				t.Errorf("unexpected registration: %+v", reg)
			}
		})

		t.Run("Duplicate Id Is A Conflict", func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "User ID already exists"}`, http.StatusConflict)
			}))

			_, err := client.RegisterAccount(context.Background(), "alice")
			if !errors.Is(err, shared.ErrConflict) {
				t.Errorf("expected ErrConflict, got %v", err)
			}
		})
	})

	t.Run("VerifyAccount", func(t *testing.T) {
		t.Run("Rejected Credentials", func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "Invalid user ID or passphrase"}`, http.StatusUnauthorized)
			}))

			err := client.VerifyAccount(context.Background(), "alice", "wrong")
			if !errors.Is(err, shared.ErrVerificationFailed) {
				t.Errorf("expected ErrVerificationFailed, got %v", err)
			}
		})

		t.Run("Accepted Credentials", func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			if err := client.VerifyAccount(context.Background(), "alice", "right"); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Transport Failure Surfaces To The Caller", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("connection reset"))
		client := NewClient("http://songhop.test", &http.Client{Transport: rt}, 0, shared.NewLogger(nil))

		if _, err := client.Playlists(context.Background(), "Bearer tok"); err == nil {
			t.Error("expected the transport error to surface")
		}
	})

	t.Run("Playlists Sends Given Auth Header", func(t *testing.T) {
		var gotAuth string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"playlists": [{"id": "p1", "name": "Mellow", "track_count": 12}]}`))
		}))

		playlists, err := client.Playlists(context.Background(), "Basic abc")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotAuth != "Basic abc" {
			t.Errorf("expected basic header, got %q", gotAuth)
		}
		if len(playlists) != 1 || playlists[0].Name != "Mellow" {
			t.Errorf("unexpected playlists: %+v", playlists)
		}
	})
}
