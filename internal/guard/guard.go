// Package guard gates navigation on session state.
//
// A guard sits in front of a navigation subtree and yields one of three
// decisions for a requested route: wait, redirect, or allow. The central
// rule is that a guard never decides while its session is still resolving —
// an unresolved session is neither a login nor a logout, and redirecting on
// it would bounce users with perfectly valid stored credentials.
package guard

import (
	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/session"
)

// Decision is the outcome of a guard check.
type Decision int

const (
	// Wait means the session is still resolving; show a loading view and
	// check again. Never treat it as a denial.
	Wait Decision = iota
	// Redirect means there is no session; go to the guard's login route.
	// The requested route has been recorded as the pending return path.
	Redirect
	// Allow means the session is resolved and the route may render.
	Allow
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Allow:
		return "allow"
	}
	return "unknown"
}

// Guard gates routes behind one session.
type Guard struct {
	session    session.Session
	paths      *session.ReturnPaths
	loginRoute session.Route
	persistent bool
	logger     *log.Logger
}

// New creates a guard. When persistent is set, denied routes are recorded in
// the credential store as well as in memory — the delegated login leaves the
// process boundary, and the return path has to survive the round trip.
func New(s session.Session, paths *session.ReturnPaths, loginRoute session.Route, persistent bool, logger *log.Logger) *Guard {
	return &Guard{
		session:    s,
		paths:      paths,
		loginRoute: loginRoute,
		persistent: persistent,
		logger:     logger.With("guard", string(loginRoute)),
	}
}

// Check decides whether requested may render.
func (g *Guard) Check(requested session.Route) Decision {
	if g.session.IsLoading() {
		return Wait
	}

	if !g.session.IsAuthenticated() {
		g.logger.Debug("denied", "route", requested)
		if g.persistent {
			g.paths.RecordPersistent(requested)
		} else {
			g.paths.Record(requested)
		}
		return Redirect
	}

	return Allow
}

// LoginRoute returns the route a denied user is sent to.
func (g *Guard) LoginRoute() session.Route {
	return g.loginRoute
}
