package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/cache"
	"github.com/seren-dev/songhop/internal/guard"
	"github.com/seren-dev/songhop/internal/models"
	"github.com/seren-dev/songhop/internal/services"
	"github.com/seren-dev/songhop/internal/session"
	"github.com/seren-dev/songhop/internal/shared"
)

// guardTick is how often a waiting view re-checks its guard.
const guardTick = 100 * time.Millisecond

// Deps bundles what the TUI needs from the rest of the application.
type Deps struct {
	API          *services.Client
	Provider     *session.Provider
	SpotifyGuard *guard.Guard
	AccountGuard *guard.Guard

	// StartSpotifyLogin runs the browser round-trip; the callback handler
	// commits the session and navigates through the [session.Navigator].
	StartSpotifyLogin func(ctx context.Context) error

	Logger *log.Logger
}

// Model represents the TUI application state. It implements
// [session.Navigator]; route and notice are guarded because managers
// navigate from their own goroutines.
type Model struct {
	ctx  context.Context
	deps Deps

	mu     sync.Mutex
	route  session.Route
	notice string
	send   func(tea.Msg)

	width   int
	height  int
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	waiting bool

	userIDInput     textinput.Model
	passphraseInput textinput.Model
	registerInput   textinput.Model
	focus           int

	issued           *models.Registration
	confirmingDelete bool
	busy             bool

	playlistList    list.Model
	playlistsLoaded bool

	err error
}

type navigatedMsg struct {
	route  session.Route
	notice string
}

type guardTickMsg struct{}

type spotifyLoginDoneMsg struct{ err error }

type loginDoneMsg struct{ ok bool }

type registerDoneMsg struct {
	reg *models.Registration
	err error
}

type deleteDoneMsg struct{ err error }

type playlistsLoadedMsg struct {
	playlists []models.Playlist
	err       error
}

// NewModel creates the TUI model. The initial route is the dashboard; the
// guards decide where the user actually lands.
func NewModel(ctx context.Context, deps Deps) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	userID := textinput.New()
	userID.Placeholder = "user id"
	userID.Focus()

	passphrase := textinput.New()
	passphrase.Placeholder = "passphrase (four words)"

	register := textinput.New()
	register.Placeholder = "user id"
	register.Focus()

	return &Model{
		ctx:             ctx,
		deps:            deps,
		route:           session.RouteDashboard,
		keys:            newKeyMap(),
		help:            help.New(),
		spinner:         sp,
		userIDInput:     userID,
		passphraseInput: passphrase,
		registerInput:   register,
	}
}

// SetSender wires the running program in so that navigation from other
// goroutines re-enters the update loop. Call it right after tea.NewProgram.
func (m *Model) SetSender(p *tea.Program) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.send = p.Send
}

// To implements [session.Navigator].
func (m *Model) To(route session.Route, notice string) {
	m.mu.Lock()
	m.route = route
	m.notice = notice
	send := m.send
	m.mu.Unlock()

	if send != nil {
		send(navigatedMsg{route: route, notice: notice})
	}
}

// Current implements [session.Navigator].
func (m *Model) Current() session.Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.route
}

func (m *Model) currentNotice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notice
}

// Init kicks off the spinner and the first guard resolution.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.resolve())
}

// guardFor returns the guard gating route, nil for public routes.
func (m *Model) guardFor(route session.Route) *guard.Guard {
	switch route {
	case session.RouteDashboard, session.RouteProfile, session.RoutePlaylists:
		return m.deps.SpotifyGuard
	case session.RouteAccountDashboard:
		return m.deps.AccountGuard
	}
	return nil
}

// resolve applies the guard for the current route. An unresolved session
// means wait and re-check; it is never treated as a denial.
func (m *Model) resolve() tea.Cmd {
	route := m.Current()

	g := m.guardFor(route)
	if g == nil {
		m.waiting = false
		return nil
	}

	switch g.Check(route) {
	case guard.Wait:
		m.waiting = true
		return tea.Tick(guardTick, func(time.Time) tea.Msg { return guardTickMsg{} })
	case guard.Redirect:
		m.waiting = false
		m.To(g.LoginRoute(), "")
		return nil
	}

	m.waiting = false
	if route == session.RoutePlaylists && !m.playlistsLoaded {
		return m.loadPlaylists()
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() != 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case navigatedMsg:
		m.confirmingDelete = false
		return m, m.resolve()

	case guardTickMsg:
		return m, m.resolve()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case spotifyLoginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.To(session.RouteLogin, msg.err.Error())
		}
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.ok {
			m.passphraseInput.Reset()
			dest := m.deps.Provider.Paths.Consume()
			if dest == "" {
				dest = session.RouteAccountDashboard
			}
			m.To(dest, "")
		} else {
			m.To(session.RouteAccountLogin, "Login failed. Check your passphrase and try again.")
		}
		return m, nil

	case registerDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.To(session.RouteAccountRegister, msg.err.Error())
			return m, nil
		}
		m.issued = msg.reg
		return m, nil

	case deleteDoneMsg:
		m.busy = false
		m.confirmingDelete = false
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case playlistsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			// A rejected session already navigated to login with the expired
			// notice and recorded the interrupted route; bouncing back to the
			// dashboard here would clobber both.
			if !errors.Is(msg.err, shared.ErrUnauthorized) && m.Current() == session.RoutePlaylists {
				m.To(session.RouteDashboard, "")
			}
			return m, nil
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Your Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.playlistsLoaded = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.waiting {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.Current() {
	case session.RouteLogin:
		return m.handleLoginKeys(msg)
	case session.RouteAccountLogin:
		return m.handleAccountLoginKeys(msg)
	case session.RouteAccountRegister:
		return m.handleRegisterKeys(msg)
	case session.RouteDashboard, session.RouteProfile:
		return m.handleDashboardKeys(msg)
	case session.RouteAccountDashboard:
		return m.handleAccountDashboardKeys(msg)
	case session.RoutePlaylists:
		return m.handlePlaylistKeys(msg)
	}

	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.spotify):
		if m.busy || m.deps.StartSpotifyLogin == nil {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			return spotifyLoginDoneMsg{err: m.deps.StartSpotifyLogin(m.ctx)}
		}
	case key.Matches(msg, m.keys.account):
		m.To(session.RouteAccountLogin, "")
		return m, nil
	case key.Matches(msg, m.keys.register):
		m.To(session.RouteAccountRegister, "")
		return m, nil
	}
	return m, nil
}

func (m *Model) handleAccountLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.To(session.RouteLogin, "")
		return m, nil
	case "tab":
		m.focus = (m.focus + 1) % 2
		if m.focus == 0 {
			m.userIDInput.Focus()
			m.passphraseInput.Blur()
		} else {
			m.userIDInput.Blur()
			m.passphraseInput.Focus()
		}
		return m, nil
	case "enter":
		userID := m.userIDInput.Value()
		passphrase := m.passphraseInput.Value()
		if userID == "" || passphrase == "" || m.busy {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			return loginDoneMsg{ok: m.deps.Provider.Account.Login(m.ctx, userID, passphrase)}
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.userIDInput, cmd = m.userIDInput.Update(msg)
	} else {
		m.passphraseInput, cmd = m.passphraseInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleRegisterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// After registration the passphrase is on screen; any continue key moves
	// on, because it will never be shown again.
	if m.issued != nil {
		switch msg.String() {
		case "enter", "esc":
			m.issued = nil
			m.registerInput.Reset()
			m.To(session.RouteAccountDashboard, "")
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.To(session.RouteLogin, "")
		return m, nil
	case "enter":
		userID := m.registerInput.Value()
		if userID == "" || m.busy {
			return m, nil
		}
		m.busy = true
		return m, func() tea.Msg {
			reg, err := m.deps.Provider.Account.Register(m.ctx, userID)
			return registerDoneMsg{reg: reg, err: err}
		}
	}

	var cmd tea.Cmd
	m.registerInput, cmd = m.registerInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmingDelete {
		switch {
		case key.Matches(msg, m.keys.yes):
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, func() tea.Msg {
				return deleteDoneMsg{err: m.deps.Provider.Spotify.DeleteAccount(m.ctx)}
			}
		case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
			m.confirmingDelete = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.playlists):
		m.To(session.RoutePlaylists, "")
		return m, nil
	case key.Matches(msg, m.keys.logout):
		m.playlistsLoaded = false
		m.deps.Provider.Spotify.Logout()
		return m, nil
	case key.Matches(msg, m.keys.delete):
		m.confirmingDelete = true
		return m, nil
	}
	return m, nil
}

func (m *Model) handleAccountDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.logout):
		m.deps.Provider.Account.Logout()
		return m, nil
	}
	return m, nil
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.To(session.RouteDashboard, "")
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

// loadPlaylists serves from the session cache when warm, otherwise fetches
// and seeds it.
func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		if cached, ok := m.deps.Provider.Cache.Get(cache.KeyPlaylists); ok {
			if playlists, ok := cached.([]models.Playlist); ok {
				return playlistsLoadedMsg{playlists: playlists}
			}
		}

		token := m.deps.Provider.Spotify.Token()
		playlists, err := m.deps.API.Playlists(m.ctx, "Bearer "+token)
		if err != nil {
			return playlistsLoadedMsg{err: err}
		}

		m.deps.Provider.Cache.Set(cache.KeyPlaylists, playlists)
		return playlistsLoadedMsg{playlists: playlists}
	}
}

// View renders the UI for the current route.
func (m *Model) View() string {
	if m.waiting {
		return fmt.Sprintf("\n  %s Checking your session...\n", m.spinner.View())
	}

	switch m.Current() {
	case session.RouteLogin:
		return m.renderLogin()
	case session.RouteAccountLogin:
		return m.renderAccountLogin()
	case session.RouteAccountRegister:
		return m.renderRegister()
	case session.RouteDashboard, session.RouteProfile:
		return m.renderDashboard()
	case session.RouteAccountDashboard:
		return m.renderAccountDashboard()
	case session.RoutePlaylists:
		return m.renderPlaylists()
	}
	return ""
}

func (m *Model) renderNotice() string {
	if notice := m.currentNotice(); notice != "" {
		return styles.notice.Render(notice) + "\n"
	}
	return ""
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("SongHop")

	body := "Sign in to browse your generated playlists."
	if m.busy {
		body = fmt.Sprintf("%s Waiting for the browser...", m.spinner.View())
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.spotify, m.keys.account, m.keys.register, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, m.renderNotice(), body, helpView)
}

func (m *Model) renderAccountLogin() string {
	title := styles.title.Render("Passphrase Login")

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n%s\n\n%s",
		title, m.renderNotice(), m.userIDInput.View(), m.passphraseInput.View(), helpView)
}

func (m *Model) renderRegister() string {
	title := styles.title.Render("Create Account")

	if m.issued != nil {
		warning := styles.warn.Render("Write this passphrase down. It will not be shown again.")
		pass := styles.ok.Render(m.issued.Passphrase)
		return fmt.Sprintf("%s\n%s\n\n  %s\n\n%s", title, warning, pass,
			m.help.ShortHelpView([]key.Binding{m.keys.enter}))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, m.renderNotice(), m.registerInput.View(), helpView)
}

func (m *Model) renderDashboard() string {
	profile := m.deps.Provider.Spotify.User()
	if profile == nil {
		return ""
	}

	if m.confirmingDelete {
		title := styles.err.Render("Delete your account?")
		info := "All server-side data will be removed. This cannot be undone."
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
		return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
	}

	title := styles.title.Render(fmt.Sprintf("Welcome, %s", profile.DisplayName))
	info := fmt.Sprintf("Spotify: %s", profile.ID)
	if profile.Email != "" {
		info = fmt.Sprintf("%s • %s", info, profile.Email)
	}

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(m.err.Error())
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.playlists, m.keys.logout, m.keys.delete, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n%s\n\n%s", title, m.renderNotice(), info, errLine, helpView)
}

func (m *Model) renderAccountDashboard() string {
	title := styles.title.Render(fmt.Sprintf("Account: %s", m.deps.Provider.Account.UserID()))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.logout, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, m.renderNotice(), helpView)
}

func (m *Model) renderPlaylists() string {
	if !m.playlistsLoaded {
		return fmt.Sprintf("\n  %s Loading playlists...\n", m.spinner.View())
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}
