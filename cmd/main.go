package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/seren-dev/songhop/internal/credstore"
	"github.com/seren-dev/songhop/internal/repositories"
	"github.com/seren-dev/songhop/internal/services"
	"github.com/seren-dev/songhop/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	api := services.NewClient(config.Service.BaseURL, nil, config.Service.RequestsPerSecond, logger)

	db, store, err := openStorage(config, logger)
	if err != nil {
		// Commands that need the session subsystem will say so; setup still
		// works without it.
		logger.Warn("credential storage unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        api,
		DB:         db,
		Store:      store,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "songhop",
		Usage:    "Browse your SongHop profile and generated playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(errors.Unwrap(err), shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// openStorage prepares the state directory, the sqlite fallback, and the
// credential store over both media.
func openStorage(config *shared.Config, logger *log.Logger) (*sql.DB, *credstore.Store, error) {
	stateDir := config.StateDir()
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	dbPath := config.Storage.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(stateDir, "songhop.db")
	}

	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		return nil, nil, err
	}
	shared.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cookies := credstore.NewCookieFile(stateDir, config.Storage.CookieFile)
	kv := credstore.NewKV(repositories.NewKVRepository(db))
	return db, credstore.New(cookies, kv, logger), nil
}
