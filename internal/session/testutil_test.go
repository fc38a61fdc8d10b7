package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/seren-dev/songhop/internal/credstore"
	"github.com/seren-dev/songhop/internal/repositories"
	"github.com/seren-dev/songhop/internal/services"
	"github.com/seren-dev/songhop/internal/shared"
)

// fakeNav records navigation for assertions.
type fakeNav struct {
	mu      sync.Mutex
	current Route
	notices []string
	history []Route
}

func (n *fakeNav) To(route Route, notice string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
	n.history = append(n.history, route)
	n.notices = append(n.notices, notice)
}

func (n *fakeNav) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *fakeNav) lastNotice() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return ""
	}
	return n.notices[len(n.notices)-1]
}

func (n *fakeNav) visited() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.history...)
}

// newTestStore builds a credential store over an in-memory sqlite fallback.
func newTestStore(t *testing.T) *credstore.Store {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	kv := credstore.NewKV(repositories.NewKVRepository(db))
	cookies := credstore.NewCookieFile(t.TempDir(), true)
	return credstore.New(cookies, kv, shared.NewLogger(nil))
}

// newTestAPI starts an httptest server and returns a client pointed at it.
func newTestAPI(t *testing.T, handler http.Handler) *services.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return services.NewClient(srv.URL, srv.Client(), 0, shared.NewLogger(nil))
}

// waitSettled polls until the manager finishes its background warm.
func waitSettled(t *testing.T, m *SpotifyManager) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for m.IsLoading() {
		if time.Now().After(deadline) {
			t.Fatal("manager never finished loading")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
