package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/credstore"
	"github.com/seren-dev/songhop/internal/guard"
	"github.com/seren-dev/songhop/internal/services"
	"github.com/seren-dev/songhop/internal/session"
	"github.com/seren-dev/songhop/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.Client
	db         *sql.DB
	store      *credstore.Store
	provider   *session.Provider
	nav        *routeNavigator
	logger     *log.Logger
	output     io.Writer

	spotifyGuard *guard.Guard
	accountGuard *guard.Guard
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.Client
	DB         *sql.DB
	Store      *credstore.Store
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration. The
// session provider (and with it the auth-failure interceptor) is only built
// when both the API client and the credential store are present.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		db:         opts.DB,
		store:      opts.Store,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.nav = &routeNavigator{out: opts.Output, current: session.RouteLogin}

	if r.api != nil && r.store != nil {
		r.provider = session.NewProvider(r.api, r.store, r.nav, r.logger)
		r.spotifyGuard = guard.New(r.provider.Spotify, r.provider.Paths, session.RouteLogin, true, r.logger)
		r.accountGuard = guard.New(r.provider.Account, r.provider.Paths, session.RouteAccountLogin, false, r.logger)
	}

	return r
}

// Close detaches the session interceptor and closes the database.
func (r *Runner) Close() {
	if r.provider != nil {
		r.provider.Close()
	}
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, accountCommand, playlistsCommand, topTracksCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireSession fails fast when the runner was built without storage.
func (r *Runner) requireSession() error {
	if r.provider == nil {
		return fmt.Errorf("%w: session subsystem not initialized, run 'songhop setup' first", shared.ErrServiceUnavailable)
	}
	return nil
}

// settleSpotify blocks until the delegated session finishes its background
// warm. A guard decision before that point would be premature.
func (r *Runner) settleSpotify() {
	deadline := time.Now().Add(10 * time.Second)
	for r.provider.Spotify.IsLoading() && time.Now().Before(deadline) {
		time.Sleep(25 * time.Millisecond)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// routeNavigator is the [session.Navigator] for plain CLI commands: it
// tracks the current route and prints notices as they arrive. The TUI
// command installs the running model as a delegate so session-driven
// navigation reaches the update loop instead.
type routeNavigator struct {
	mu       sync.Mutex
	current  session.Route
	out      io.Writer
	delegate session.Navigator
}

func (n *routeNavigator) SetDelegate(d session.Navigator) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delegate = d
}

func (n *routeNavigator) To(route session.Route, notice string) {
	n.mu.Lock()
	delegate := n.delegate
	if delegate == nil {
		n.current = route
	}
	n.mu.Unlock()

	if delegate != nil {
		delegate.To(route, notice)
		return
	}

	if notice != "" {
		fmt.Fprintf(n.out, "%s\n", notice)
	}
}

func (n *routeNavigator) Current() session.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.delegate != nil {
		return n.delegate.Current()
	}
	return n.current
}

// Visit marks the route a command is acting as, so a mid-command session
// rejection records the right return path.
func (n *routeNavigator) Visit(route session.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
}
