package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/trax/internal/shared"
	"github.com/desertthunder/trax/internal/store"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var credentials store.Store
	db, err := shared.NewDatabase(config.Storage)
	if err != nil {
		logger.Warnf("falling back to in-memory session store: %v", err)
		credentials = store.NewMemory()
	} else {
		defer db.Close()
		if credentials, err = store.NewDB(db); err != nil {
			logger.Fatalf("failed to initialize session store: %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  credentials,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "trax",
		Usage:    "Stream your imported music library from the gateway",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			// The sign-in prompt was already printed by the guard.
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
