package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/seren-dev/songhop/internal/models"
	"github.com/seren-dev/songhop/internal/shared"
)

func TestAccountManager(t *testing.T) {
	t.Run("Restores Session From Store", func(t *testing.T) {
		store := newTestStore(t)
		creds := models.Credentials{UserID: "alice", Passphrase: "river stone amber falls"}
		if err := store.StoreCredentials(creds); err != nil {
			t.Fatalf("failed to seed credentials: %v", err)
		}

		api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("session restore must not hit the network")
		}))

		m := NewAccountManager(store, api, &fakeNav{}, shared.NewLogger(nil))

		if m.IsLoading() {
			t.Error("state resolves synchronously")
		}
		if !m.IsAuthenticated() {
			t.Error("expected restored session")
		}
		if m.UserID() != "alice" {
			t.Errorf("expected alice, got %s", m.UserID())
		}
	})

	t.Run("Starts Logged Out Without Credentials", func(t *testing.T) {
		m := NewAccountManager(newTestStore(t), newTestAPI(t, http.NotFoundHandler()), &fakeNav{}, shared.NewLogger(nil))

		if m.IsAuthenticated() {
			t.Error("expected logged-out state")
		}
		if m.BasicHeader() != "" {
			t.Error("no header without credentials")
		}
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("Success Stores Credentials", func(t *testing.T) {
			store := newTestStore(t)
			api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"user_id": "alice", "passphrase": "river stone amber falls"}`))
			}))

			m := NewAccountManager(store, api, &fakeNav{}, shared.NewLogger(nil))

			reg, err := m.Register(context.Background(), "alice")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if reg.Passphrase != "river stone amber falls" {
				t.Errorf("unexpected passphrase %q", reg.Passphrase)
			}

			if !m.IsAuthenticated() {
				t.Error("expected logged-in state after registration")
			}
			if _, ok := store.RetrieveCredentials(); !ok {
				t.Error("expected credentials in store")
			}
		})

		t.Run("Duplicate Id Is A Conflict", func(t *testing.T) {
			api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "User ID already exists"}`, http.StatusConflict)
			}))

			m := NewAccountManager(newTestStore(t), api, &fakeNav{}, shared.NewLogger(nil))

			_, err := m.Register(context.Background(), "alice")
			if !errors.Is(err, shared.ErrConflict) {
				t.Errorf("expected ErrConflict, got %v", err)
			}
			if m.IsAuthenticated() {
				t.Error("a conflict must not affect session state")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			store := newTestStore(t)
			api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			m := NewAccountManager(store, api, &fakeNav{}, shared.NewLogger(nil))

			if !m.Login(context.Background(), "alice", "right words here now") {
				t.Fatal("expected login to succeed")
			}
			if !m.IsAuthenticated() || m.UserID() != "alice" {
				t.Error("expected logged-in state")
			}
			if m.BasicHeader() == "" {
				t.Error("expected a Basic header after login")
			}
		})

		t.Run("Bad Credentials And Transport Failure Look The Same", func(t *testing.T) {
			tc := []struct {
				name   string
				status int
			}{
				{name: "rejected credentials", status: http.StatusUnauthorized},
				{name: "server failure", status: http.StatusInternalServerError},
			}

			for _, tt := range tc {
				t.Run(tt.name, func(t *testing.T) {
					api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						http.Error(w, `{"error": "nope"}`, tt.status)
					}))

					m := NewAccountManager(newTestStore(t), api, &fakeNav{}, shared.NewLogger(nil))

					if m.Login(context.Background(), "alice", "whatever") {
						t.Error("expected login to fail")
					}
					if m.IsAuthenticated() {
						t.Error("expected logged-out state")
					}
				})
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.StoreCredentials(models.Credentials{UserID: "alice", Passphrase: "x y z w"}); err != nil {
			t.Fatalf("failed to seed credentials: %v", err)
		}

		nav := &fakeNav{}
		m := NewAccountManager(store, newTestAPI(t, http.NotFoundHandler()), nav, shared.NewLogger(nil))

		m.Logout()

		if m.IsAuthenticated() {
			t.Error("expected logged-out state")
		}
		if _, ok := store.RetrieveCredentials(); ok {
			t.Error("expected credentials cleared")
		}
		if nav.Current() != RouteAccountLogin {
			t.Errorf("expected navigation to account login, got %s", nav.Current())
		}
	})

	t.Run("Stale Login Result Is Discarded", func(t *testing.T) {
		store := newTestStore(t)
		m := NewAccountManager(store, newTestAPI(t, http.NotFoundHandler()), &fakeNav{}, shared.NewLogger(nil))

		// A verification succeeds, but a logout ran while it was in flight.
		gen := m.currentGeneration()
		m.Logout()

		if m.commit(gen, models.Credentials{UserID: "alice", Passphrase: "a b c d"}) {
			t.Fatal("stale commit must not resurrect the session")
		}
		if m.IsAuthenticated() {
			t.Error("expected logged-out state")
		}
		if _, ok := store.RetrieveCredentials(); ok {
			t.Error("stale commit must not write credentials")
		}
	})
}
