// Package session owns the two authenticated-session state machines.
//
// Two structurally different identity schemes coexist: a delegated session
// backed by a Spotify authorization redirect and a bearer token
// ([SpotifyManager]), and a direct session backed by a user id / passphrase
// pair ([AccountManager]). Each navigation subtree is gated by exactly one
// of them; the two never unify beyond the small capability surface the
// route guards need.
//
// Secrets live only in the credential store. Managers hold the derived,
// non-secret identity view and expose it read-only. A [Provider] creates
// both managers at application start and tears the interceptor down at
// exit.
package session

// Route identifies a navigable view in the application.
type Route string

const (
	RouteLogin            Route = "/login"
	RouteCallback         Route = "/callback"
	RouteDashboard        Route = "/dashboard"
	RouteProfile          Route = "/profile"
	RoutePlaylists        Route = "/playlists"
	RouteAccountLogin     Route = "/account/login"
	RouteAccountRegister  Route = "/account/register"
	RouteAccountDashboard Route = "/account/dashboard"
)

// Navigator moves the user between views. The TUI switches views in place;
// the plain CLI renders the destination and notice as output.
type Navigator interface {
	// To navigates to a route. notice is an optional human-readable message
	// for the destination view (a login error, "session expired", etc).
	To(route Route, notice string)
	// Current returns the route being displayed.
	Current() Route
}

// Session is the capability surface a route guard needs. Both managers
// implement it.
type Session interface {
	IsAuthenticated() bool
	IsLoading() bool
	Logout()
}
