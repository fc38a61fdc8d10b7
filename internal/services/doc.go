// Package services implements the HTTP client for the SongHop API.
//
// One [Client] is shared process-wide. It owns the rate limiter and the
// transport, which makes it the attachment point for the
// [AuthFailureInterceptor]: a single hook that turns any 401 response into a
// centralized session teardown, so no call site needs its own handling.
//
// Authorization is carried per scheme: a bearer header built from an
// [golang.org/x/oauth2] static token source for delegated sessions, and a
// Basic header built from the stored user id / passphrase pair for direct
// sessions.
package services
