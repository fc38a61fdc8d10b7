package main

import (
	"context"
	"fmt"
	"os"

	"github.com/seren-dev/songhop/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, prepares the state directory,
// and runs the key-value store migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	db, _, err := openStorage(config, r.logger)
	if err != nil {
		return fmt.Errorf("failed to prepare storage: %w", err)
	}
	defer db.Close()

	r.writePlain("✓ Setup complete\n")
	r.writePlain("  Config: %s\n", configPath)
	r.writePlain("  State:  %s\n", config.StateDir())
	return nil
}
