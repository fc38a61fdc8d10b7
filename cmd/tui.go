package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/seren-dev/songhop/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal interface.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	// Logs and command output would corrupt the TUI rendering.
	logPath := filepath.Join(r.config.StateDir(), "tui.log")
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
		defer f.Close()
		r.logger.SetOutput(f)
	}
	prevOutput := r.output
	r.output = io.Discard
	defer func() { r.output = prevOutput }()

	model := ui.NewModel(ctx, ui.Deps{
		API:          r.api,
		Provider:     r.provider,
		SpotifyGuard: r.spotifyGuard,
		AccountGuard: r.accountGuard,
		StartSpotifyLogin: func(ctx context.Context) error {
			return r.spotifyLoginFlow(ctx, false)
		},
		Logger: r.logger,
	})

	// Session-driven navigation goes to the model while it is on screen.
	r.nav.SetDelegate(model)
	defer r.nav.SetDelegate(nil)

	p := tea.NewProgram(model)
	model.SetSender(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
