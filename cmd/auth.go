package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/seren-dev/songhop/internal/guard"
	"github.com/seren-dev/songhop/internal/server"
	"github.com/seren-dev/songhop/internal/session"
	"github.com/seren-dev/songhop/internal/shared"
	"github.com/urfave/cli/v3"
)

// loginTimeout bounds how long a login command waits for the browser
// round-trip.
const loginTimeout = 2 * time.Minute

// AuthLogin runs the delegated login: a local callback server, a browser
// visit to the service's Spotify entry point, and a session commit from the
// redirect payload.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	if err := r.spotifyLoginFlow(ctx, cmd.Bool("no-browser")); err != nil {
		return err
	}

	if !r.provider.Spotify.IsAuthenticated() {
		// The login view already showed why.
		return shared.ErrNotAuthenticated
	}

	profile := r.provider.Spotify.User()
	r.writePlain("✓ Signed in as %s (%s)\n", profile.DisplayName, profile.ID)

	if dest := r.nav.Current(); dest != session.RouteDashboard && dest != session.RouteLogin {
		r.writePlain("→ Continue where you left off: songhop %s\n", commandHint(dest))
	}
	return nil
}

// spotifyLoginFlow opens the browser and waits for exactly one callback.
func (r *Runner) spotifyLoginFlow(ctx context.Context, noBrowser bool) error {
	state := shared.GenerateState()

	handler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	serverCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Run(serverCtx, r.config.CallbackAddr(), router, r.logger)
	}()

	redirect := fmt.Sprintf("http://%s/callback", r.config.CallbackAddr())
	query := url.Values{
		"redirect_uri": {redirect},
		"state":        {state},
	}
	loginURL := r.config.Service.BaseURL + r.config.Service.LoginPath + "?" + query.Encode()

	if noBrowser {
		r.writePlain("Open this URL in your browser:\n%s\n\n", loginURL)
	} else {
		r.writePlain("→ Opening browser for Spotify sign-in...\n")
		if err := shared.OpenBrowser(loginURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Could not open a browser. Open this URL manually:\n%s\n\n", loginURL)
		}
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", loginTimeout)

	timeout := time.NewTimer(loginTimeout)
	defer timeout.Stop()

	var result server.CallbackResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out", shared.ErrTimeout)
	}

	if err := result.Error(); err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	r.provider.Spotify.HandleAuthCallback(result.Query)
	return nil
}

// AuthLogout clears the delegated session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.provider.Spotify.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami shows the signed-in profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.settleSpotify()
	r.nav.Visit(session.RouteProfile)

	if r.spotifyGuard.Check(session.RouteProfile) != guard.Allow {
		return r.writePlain("Not signed in. Run 'songhop auth login'.\n")
	}

	profile := r.provider.Spotify.User()
	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlain("Signed in as %s\n", profile.DisplayName)
	r.writePlain("  ID:      %s\n", profile.ID)
	if profile.Email != "" {
		r.writePlain("  Email:   %s\n", profile.Email)
	}
	if profile.Country != "" {
		r.writePlain("  Country: %s\n", profile.Country)
	}
	return nil
}

// AuthDeleteAccount deletes the account server-side and tears down the
// session. A failed deletion leaves the session untouched.
func (r *Runner) AuthDeleteAccount(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.settleSpotify()

	if !r.provider.Spotify.IsAuthenticated() {
		return r.writePlain("Not signed in. Run 'songhop auth login'.\n")
	}

	if !cmd.Bool("yes") {
		r.writePlain("This permanently deletes your account and all server-side data.\n")
		r.writePlain("Re-run with --yes to confirm.\n")
		return nil
	}

	if err := r.provider.Spotify.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("account not deleted, you are still signed in: %w", err)
	}

	return r.writePlain("✓ Account deleted\n")
}

// commandHint maps a route to the command that shows it.
func commandHint(route session.Route) string {
	switch route {
	case session.RoutePlaylists:
		return "playlists"
	case session.RouteProfile:
		return "auth whoami"
	case session.RouteAccountDashboard:
		return "account whoami"
	default:
		return "tui"
	}
}
