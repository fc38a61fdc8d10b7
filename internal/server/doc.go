// Package server hosts the short-lived local HTTP endpoint the delegated
// login round-trip lands on.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. [BasicRouter] uses [http.ServeMux]
// internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] receives the redirect the SongHop service issues at the
// end of the Spotify authorization flow. The service has already exchanged
// the authorization code; the redirect only carries the encoded session
// payload (or an error). The handler validates the state parameter, forwards
// the raw query through a channel exactly once, and renders a close-window
// page. Decoding and session commit happen in the session package, not here.
//
// # Usage
//
// The login command starts a temporary server on localhost, opens the
// browser, waits for one callback, and shuts the server down.
package server
