package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytbox/internal/formatter"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/tasks"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

// PlaylistConvert renders exported playlist documents into another format, concurrently.
func (r *Runner) PlaylistConvert(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	files := cmd.StringSlice("file")
	docs := make([]models.PlaylistDocument, 0, len(files))
	for _, f := range files {
		doc, err := formatter.ReadPlaylistFile(f)
		if err != nil {
			return err
		}
		docs = append(docs, *doc)
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.Lookup.RateLimit,
	}
	if cmd.Bool("cover") {
		opts.CoverImage = func(url string) ([]byte, error) {
			return formatter.DownloadImage(r.httpClient, url)
		}
	}

	r.logger.Info("converting playlists", "count", len(docs), "format", format)
	result, err := r.engine.BulkExport(ctx, r.progress, docs, opts)
	if err != nil {
		return err
	}

	r.writePlain("\n%s", ui.Header("Conversion Complete!"))
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Converted: %s\n", ui.OK(fmt.Sprintf("%d/%d", result.SuccessfulExports, result.TotalPlaylists)))
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  %s %s: %s\n", ui.Err("✗"), res.PlaylistName, res.ErrorMessage)
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
