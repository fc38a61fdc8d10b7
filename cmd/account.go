package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/seren-dev/songhop/internal/guard"
	"github.com/seren-dev/songhop/internal/session"
	"github.com/seren-dev/songhop/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountRegister creates a direct account and prints the server-issued
// passphrase. It is shown exactly once and never recoverable.
func (r *Runner) AccountRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	userID := cmd.StringArg("user-id")
	if userID == "" {
		return fmt.Errorf("%w: user-id", shared.ErrMissingArgument)
	}

	registration, err := r.provider.Account.Register(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return fmt.Errorf("user id %q is taken: %w", userID, err)
		}
		return err
	}

	r.writePlain("✓ Account created and logged in as %s\n", registration.UserID)
	r.writePlainln("Your passphrase:\n\n    %s", registration.Passphrase)
	r.writePlain("Write it down now. It will not be shown again.\n")
	return nil
}

// AccountLogin verifies a user id / passphrase pair and stores it.
func (r *Runner) AccountLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	userID := cmd.StringArg("user-id")
	if userID == "" {
		return fmt.Errorf("%w: user-id", shared.ErrMissingArgument)
	}

	if !r.provider.Account.Login(ctx, userID, cmd.String("passphrase")) {
		return fmt.Errorf("%w", shared.ErrVerificationFailed)
	}

	r.writePlain("✓ Logged in as %s\n", userID)

	// A denied route recorded before the login lands the user back there;
	// consuming clears it either way so a later login cannot replay it.
	dest := r.provider.Paths.Consume()
	if dest == "" {
		dest = session.RouteAccountDashboard
	}
	r.nav.Visit(dest)

	if dest != session.RouteAccountDashboard {
		r.writePlain("→ Continue where you left off: songhop %s\n", commandHint(dest))
	}
	return nil
}

// AccountLogout clears the stored credentials.
func (r *Runner) AccountLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.provider.Account.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AccountWhoami shows the logged-in account.
func (r *Runner) AccountWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	r.nav.Visit(session.RouteAccountDashboard)
	if r.accountGuard.Check(session.RouteAccountDashboard) != guard.Allow {
		return r.writePlain("Not logged in. Run 'songhop account login'.\n")
	}

	return r.writePlain("Logged in as %s\n", r.provider.Account.UserID())
}
