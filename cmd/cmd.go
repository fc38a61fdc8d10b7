// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles the delegated (Spotify) session.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify-linked session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in through Spotify in the browser",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the login URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in Spotify profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:  "delete-account",
				Usage: "Permanently delete the account and all server-side data",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.AuthDeleteAccount,
			},
		},
	}
}

// accountCommand handles the passphrase-based direct session.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Manage the passphrase-based account",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account; the passphrase is shown exactly once",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user-id"},
				},
				Action: r.AccountRegister,
			},
			{
				Name:  "login",
				Usage: "Log in with a user id and passphrase",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "passphrase",
						Aliases:  []string{"p"},
						Usage:    "The four-word passphrase issued at registration",
						Required: true,
					},
				},
				Action: r.AccountLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored credentials",
				Action: r.AccountLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in account",
				Action: r.AccountWhoami,
			},
		},
	}
}

// playlistsCommand lists the user's generated playlists.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List your generated playlists",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
			&cli.BoolFlag{Name: "refresh", Usage: "Bypass the session cache"},
		},
		Action: r.Playlists,
	}
}

// topTracksCommand lists the user's listening history.
func topTracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "top-tracks",
		Aliases: []string{"tracks"},
		Usage:   "Show your most played tracks",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
			&cli.BoolFlag{Name: "refresh", Usage: "Bypass the session cache"},
		},
		Action: r.TopTracks,
	}
}

// setupCommand handles setup operations for configuration and storage.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and local storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal interface",
		Action:  r.TUI,
	}
}
