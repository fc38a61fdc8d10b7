// Package ui implements the interactive terminal interface using bubbletea's
// Elm architecture.
//
// Each navigable route renders as a view: the Spotify login entry point, the
// passphrase login and registration forms, the dashboards, and the playlist
// browser. The [Model] doubles as the session [session.Navigator] — managers
// and the auth-failure hook navigate by calling To, which feeds a message
// back into the update loop.
//
// Protected views sit behind route guards. While a session is still
// resolving the model shows a spinner and re-checks on every tick; it never
// redirects on an unresolved session.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help via charmbracelet/bubbles/help.
package ui
