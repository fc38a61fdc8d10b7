package session

import (
	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/cache"
	"github.com/seren-dev/songhop/internal/credstore"
	"github.com/seren-dev/songhop/internal/services"
)

// Provider wires the session subsystem together for the lifetime of the
// application: the credential store, the session cache, both managers, the
// return-path store, and the auth-failure interceptor on the shared client.
//
// Construct it once at startup and Close it on the way out — the
// interceptor must not outlive the provider or stack up across restarts in
// a long-lived process.
type Provider struct {
	Store   *credstore.Store
	Cache   *cache.QueryCache
	Paths   *ReturnPaths
	Spotify *SpotifyManager
	Account *AccountManager

	api    *services.Client
	nav    Navigator
	logger *log.Logger
}

// NewProvider builds the session subsystem and attaches the interceptor.
func NewProvider(api *services.Client, store *credstore.Store, nav Navigator, logger *log.Logger) *Provider {
	qc := cache.New()

	p := &Provider{
		Store:  store,
		Cache:  qc,
		Paths:  NewReturnPaths(store, logger),
		api:    api,
		nav:    nav,
		logger: logger,
	}

	p.Spotify = NewSpotifyManager(store, qc, api, nav, p.Paths, logger)
	p.Account = NewAccountManager(store, api, nav, logger)

	api.AttachAuthFailure(p.sessionRejected)

	return p
}

// Close detaches the interceptor.
func (p *Provider) Close() {
	p.api.DetachAuthFailure()
}

// sessionRejected runs when any bearer-authorized call comes back 401:
// evict all session-derived data, tear the delegated session down, and — if
// the user is not already at the login entry point — send them there with a
// session-expired notice and the interrupted route as the pending return
// path. The failing call itself still surfaces its error at the call site.
func (p *Provider) sessionRejected() {
	interrupted := p.nav.Current()

	p.Spotify.Invalidate()

	if interrupted == RouteLogin {
		return
	}

	p.Paths.RecordPersistent(interrupted)
	p.nav.To(RouteLogin, SessionExpiredNotice)
}
