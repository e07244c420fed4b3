package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/trax/internal/shared"
	"github.com/desertthunder/trax/internal/store"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config.toml from the embedded defaults.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", shared.ErrInvalidConfig, path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Wrote %s\n", path)
	return r.writePlain("Edit it to point gateway.base_url at your gateway, or set %s\n", shared.EnvGatewayURL)
}

// SetupDatabase initializes the local session database so the first
// sign-in does not have to.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Storage.Path)

	db, err := shared.NewDatabase(r.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if _, err := store.NewDB(db); err != nil {
		return fmt.Errorf("failed to initialize session table: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Storage.Path)
	return r.writePlain("✓ Session database ready at %s\n", r.config.Storage.Path)
}
