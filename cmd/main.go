package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/studio/internal/services"
	"github.com/desertthunder/studio/internal/shared"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := defaultConfigPath
	if p := os.Getenv("STUDIO_CONFIG"); p != "" {
		configPath = p
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	opts := RunnerOpts{Config: config, ConfigPath: configPath, Logger: logger}

	if _, err := os.Stat(config.Database.Path); err == nil {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			logger.Warn("failed to open database", "path", config.Database.Path, "error", err)
		} else {
			defer db.Close()
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			if err := shared.RunMigrations(db); err != nil {
				logger.Fatalf("failed to run migrations: %v", err)
			}
			opts.DB = db
		}
	}

	runner := NewRunner(opts)

	if drive, err := services.NewDriveService(config.Credentials.Google, config.Drive); err == nil {
		drive.OnTokenRefresh(func(token *oauth2.Token) {
			if err := runner.saveTokens(token); err != nil {
				logger.Warn("failed to persist refreshed token", "error", err)
			}
		})
		runner.drive = drive
	} else {
		logger.Debug("google drive disabled", "reason", err)
	}

	app := &cli.Command{
		Name:     "studio",
		Usage:    "Compose client photos into print templates",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
