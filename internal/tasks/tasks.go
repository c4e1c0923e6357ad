// package tasks implements the playlist batch operations: downloading every track
// of a playlist, bundling the results, handing files to a delivery sink, and
// exporting playlists in bulk.
package tasks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/archive"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
)

// Acquirer produces one artifact per track; [acquisition.Service] satisfies it.
type Acquirer interface {
	AcquireAs(ctx context.Context, track models.Track, basename string) models.AcquisitionResult
}

// Archiver bundles artifacts; [archive.Builder] satisfies it.
type Archiver interface {
	Build(paths []string, name string) (string, error)
}

// PlaylistEngine runs batch operations over playlists.
type PlaylistEngine struct {
	acquirer Acquirer
	archiver Archiver
	logger   *log.Logger
	now      func() time.Time
}

// NewPlaylistEngine creates a new PlaylistEngine.
func NewPlaylistEngine(acquirer Acquirer, archiver Archiver, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistEngine{
		acquirer: acquirer,
		archiver: archiver,
		logger:   logger,
		now:      time.Now,
	}
}

// sendProgress forwards update to progress when one was supplied.
func (e *PlaylistEngine) sendProgress(progress ProgressFunc, update ProgressUpdate) {
	if progress != nil {
		progress(update)
	}
}

// BatchDownload acquires every track of playlist in order.
//
// A failed item is recorded and the batch continues. With [models.BatchBundle]
// every success is packed into one archive named after the playlist and the
// current time, even when only one item succeeded. With [models.BatchIndividual]
// the artifacts are left for separate delivery.
//
// Errors: [shared.ErrEmptyPlaylist] before any work, [shared.ErrAllDownloadsFailed]
// (with the populated result) when nothing succeeded, the context error when the
// batch is canceled between items, and the archive error when bundling fails.
func (e *PlaylistEngine) BatchDownload(ctx context.Context, playlist *models.Playlist, mode models.BatchMode, progress ProgressFunc) (*models.BatchResult, error) {
	if playlist == nil || playlist.Len() == 0 {
		return nil, shared.ErrEmptyPlaylist
	}
	if mode == "" {
		mode = models.BatchBundle
	}
	if mode != models.BatchBundle && mode != models.BatchIndividual {
		return nil, fmt.Errorf("%w: unknown batch mode %q", shared.ErrValidation, mode)
	}
	if e.acquirer == nil {
		return nil, fmt.Errorf("%w: acquisition is not configured", shared.ErrProviderUnavailable)
	}

	tracks := playlist.Clone().Tracks
	total := len(tracks)
	result := &models.BatchResult{
		Playlist:  playlist.Name,
		Mode:      mode,
		Successes: make([]models.AcquisitionResult, 0, total),
	}

	e.logger.Info("batch started", "playlist", playlist.Name, "tracks", total, "mode", mode)
	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		step := i + 1
		e.sendProgress(progress, acquireUpdate(step, total, track))

		res := e.acquirer.AcquireAs(ctx, track, ItemName(step, total, track.Title))
		if res.Succeeded {
			result.Successes = append(result.Successes, res)
			e.sendProgress(progress, itemDoneUpdate(step, total, res))
			continue
		}

		failure := models.ItemFailure{
			Index:  step,
			Title:  track.Title,
			Reason: res.FailureReason,
			Kind:   shared.ErrorKind(res.Err),
		}
		result.FailureCount++
		result.Failures = append(result.Failures, failure)
		e.logger.Warn("batch item failed", "track", track.String(), "reason", failure.Reason)
		e.sendProgress(progress, itemFailedUpdate(step, total, failure))
	}

	if len(result.Successes) == 0 {
		return result, fmt.Errorf("%w: %d of %d items failed", shared.ErrAllDownloadsFailed, result.FailureCount, total)
	}

	if mode == models.BatchBundle {
		name := archive.Name(playlist.Name, e.now())
		e.sendProgress(progress, bundleUpdate(len(result.Successes), name))

		path, err := e.archiver.Build(result.Artifacts(), name)
		if err != nil {
			return result, err
		}
		result.ArchivePath = path
	}

	e.logger.Info("batch finished", "playlist", playlist.Name, "ok", len(result.Successes), "failed", result.FailureCount)
	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

// ItemName prefixes title with its zero padded position, e.g. "03_Title".
// The width grows with total, with a minimum of two digits.
func ItemName(step, total int, title string) string {
	width := max(2, len(strconv.Itoa(total)))
	return fmt.Sprintf("%0*d_%s", width, step, title)
}
