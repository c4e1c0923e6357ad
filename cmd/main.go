package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/acquisition"
	"github.com/desertthunder/ytbox/internal/repositories"
	"github.com/desertthunder/ytbox/internal/services"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("YTBOX_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	if lvl, err := shared.ParseLogLevel(config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	} else {
		shared.SetLogLevel(logger, lvl)
	}

	ctx := context.Background()
	httpClient := &http.Client{Timeout: config.Lookup.Timeout()}

	var tracks *repositories.TrackRepository
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Warn("lookup cache disabled", "path", config.Database.Path, "error", err)
	} else {
		tracks = repositories.NewTrackRepository(db)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Lookup:     newGateway(ctx, config, tracks, httpClient, logger),
		Extractor:  acquisition.NewYTDLPExtractor(config.Acquisition, logger),
		Tracks:     tracks,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "ytbox",
		Usage:    "Search, preview, collect and download music from YouTube and Spotify",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(ctx, os.Args)
	closeDB(db, logger)
	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// newGateway wires the lookup backends. YouTube search runs through yt-dlp unless a
// search proxy is configured. Spotify is left out when credentials are missing.
func newGateway(ctx context.Context, config *shared.Config, tracks *repositories.TrackRepository, client *http.Client, logger *log.Logger) *services.Gateway {
	var youtube services.VideoSearcher = services.NewYTDLPSearcher(config.Acquisition.YTDLPPath, logger)
	if config.Credentials.YouTube.ProxyURL != "" {
		youtube = services.NewYouTubeService(config.Credentials.YouTube.ProxyURL, client)
		logger.Debug("youtube search via proxy", "url", config.Credentials.YouTube.ProxyURL)
	}

	opts := services.GatewayOpts{
		YouTube:   youtube,
		Resolver:  services.NewYouTubeVideoResolver(),
		RateLimit: config.Lookup.RateLimit,
		Burst:     config.Lookup.Burst,
		Logger:    logger,
	}
	if tracks != nil {
		opts.Cache = repositories.NewTrackCacheAdapter(tracks)
	}

	catalog, err := services.NewSpotifyCatalog(ctx, config.Credentials.Spotify)
	switch {
	case err == nil:
		opts.Spotify = catalog
	case errors.Is(err, shared.ErrMissingCredentials):
		logger.Debug("spotify disabled: no credentials")
	default:
		logger.Warn("spotify disabled", "error", err)
	}

	return services.NewGateway(opts)
}

func closeDB(db *sql.DB, logger *log.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}
