package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/tasks"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

// Download acquires one linked track and saves it to --output.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: a url is required", shared.ErrValidation)
	}
	if r.acquisition == nil {
		return fmt.Errorf("%w: acquisition is not configured", shared.ErrProviderUnavailable)
	}

	sess, done, err := r.newSession()
	if err != nil {
		return err
	}
	defer done()

	t, err := r.commands.ResolveURL(ctx, sess, url)
	if err != nil {
		return err
	}

	r.writePlain("Downloading %s...\n", t.String())
	sink := &tasks.DirSink{Dir: cmd.String("output")}
	res, err := r.commands.DownloadTrack(ctx, sess, t, sink)
	if err != nil {
		return err
	}

	if res.ResolvedTrack != nil {
		r.writePlain("%s\n", ui.Help(fmt.Sprintf("matched %s (confidence %.2f)", res.ResolvedTrack.String(), res.MatchConfidence)))
	}
	for _, path := range sink.Saved {
		r.writePlain("%s %s\n", ui.OK("✓ Saved"), path)
	}
	return nil
}

// Batch downloads every track of a playlist document.
//
// The document becomes a playlist of a throwaway session which is then batch
// downloaded, so the run behaves exactly like the shell and HTTP batch commands.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	if r.acquisition == nil {
		return fmt.Errorf("%w: acquisition is not configured", shared.ErrProviderUnavailable)
	}

	mode, err := models.ParseBatchMode(cmd.String("mode"))
	if err != nil {
		return err
	}

	path := cmd.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}

	sess, done, err := r.newSession()
	if err != nil {
		return err
	}
	defer done()

	imported, err := r.commands.ImportPlaylist(ctx, sess, bytes.NewReader(data))
	if err != nil {
		return err
	}
	r.logger.Info("loaded playlist", "file", path, "playlist", imported.Playlist, "tracks", imported.Added)

	asJSON := cmd.Bool("json")
	var progress tasks.ProgressFunc
	if !asJSON {
		progress = r.progress
	}

	sink := &tasks.DirSink{Dir: cmd.String("output")}
	result, err := r.commands.DownloadPlaylist(ctx, sess, "", mode, progress, sink)
	if result == nil {
		return err
	}

	if asJSON {
		if werr := r.writeJSON(result, true); werr != nil {
			return errors.Join(err, werr)
		}
		return err
	}

	r.writePlain("\n%s", ui.BatchSummary(result))
	for _, saved := range sink.Saved {
		r.writePlain("%s %s\n", ui.OK("✓ Saved"), saved)
	}
	return err
}
