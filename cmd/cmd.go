// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Directory downloaded files are saved to",
		Value:   ".",
	}
}

// searchCommand searches YouTube and Spotify
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search for tracks by free text",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Provider to search (any, youtube, spotify)",
				Value:   "any",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum results per provider",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// resolveCommand looks up a pasted link
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a YouTube or Spotify link into track metadata",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Resolve,
	}
}

// downloadCommand acquires a single track
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "download",
		Aliases: []string{"dl"},
		Usage:   "Download the audio of a YouTube or Spotify link",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags:  []cli.Flag{outputFlag()},
		Action: r.Download,
	}
}

// batchCommand downloads every track of an exported playlist
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Download every track of an exported playlist document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Playlist document (JSON export)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Delivery mode (bundle, individual)",
				Value:   "bundle",
			},
			outputFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the batch result as JSON",
			},
		},
		Action: r.Batch,
	}
}

// playlistCommand handles playlist document operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Playlist document operations",
		Commands: []*cli.Command{
			{
				Name:  "convert",
				Usage: "Convert exported playlists to another format",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Playlist document to convert (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (json, csv, markdown, txt)",
						Value: "markdown",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: playlist_export_<epoch>)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "cover",
						Usage: "Download cover art for markdown exports",
						Value: true,
					},
				},
				Action: r.PlaylistConvert,
			},
		},
	}
}

// shellCommand starts the interactive session
func shellCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"interactive", "i"},
		Usage:   "Start an interactive session",
		Flags: []cli.Flag{
			outputFlag(),
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open payment links in the browser",
			},
		},
		Action: r.Shell,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (default from config)",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for config, database and yt-dlp.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a default configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "ytdlp",
				Usage:  "Install yt-dlp when it is not already available",
				Action: r.SetupYTDLP,
			},
		},
	}
}

// cacheCommand inspects the lookup cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local lookup cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Only list tracks from this provider (youtube, spotify)",
						Value: "any",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached track",
				Action: r.CacheClear,
			},
		},
	}
}

// creatorCommand handles the simulated creator mode
func creatorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "creator",
		Usage: "Creator mode (simulated)",
		Commands: []*cli.Command{
			{
				Name:  "tiers",
				Usage: "List promotion tiers with prices",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CreatorTiers,
			},
		},
	}
}
