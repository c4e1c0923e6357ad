package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytbox/internal/acquisition"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)
	r.writePlain("%s %s\n", ui.OK("✓ Config written to"), configPath)
	r.writePlain("%s\n", ui.Help("Set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET (or edit the file) to enable Spotify search."))
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
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
	if err := shared.ApplyEnv(config); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupYTDLP makes sure a yt-dlp executable is available for downloads.
func (r *Runner) SetupYTDLP(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("resolving yt-dlp")
	executable, version, err := acquisition.Install(ctx)
	if err != nil {
		return err
	}

	r.writePlain("%s %s (%s)\n", ui.OK("✓ yt-dlp ready:"), executable, version)
	r.writePlain("%s\n", ui.Help("Set acquisition.ytdlp_path in config.toml to pin this executable."))
	return nil
}
