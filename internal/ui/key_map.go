package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	next      key.Binding
	yes       key.Binding
	no        key.Binding
	spotify   key.Binding
	account   key.Binding
	register  key.Binding
	playlists key.Binding
	logout    key.Binding
	delete    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		spotify:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign in with Spotify")),
		account:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "passphrase login")),
		register:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "register")),
		playlists: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "playlists")),
		logout:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log out")),
		delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete account")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.spotify, k.account},
		{k.playlists, k.logout, k.quit},
	}
}
