package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

var errCacheDisabled = fmt.Errorf("%w: lookup cache is disabled, run 'ytbox setup database'", shared.ErrProviderUnavailable)

// CacheList prints tracks stored by url resolution.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if r.tracks == nil {
		return errCacheDisabled
	}
	provider, err := models.ParseProvider(cmd.String("provider"))
	if err != nil {
		return err
	}

	tracks, err := r.tracks.List(provider)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlainHeader(fmt.Sprintf("Cached tracks (%d)", len(tracks)))
	r.writePlain("%s", ui.TrackList(tracks, -1))
	return nil
}

// CacheClear empties the lookup cache.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.tracks == nil {
		return errCacheDisabled
	}
	n, err := r.tracks.Purge()
	if err != nil {
		return err
	}
	r.logger.Info("cache cleared", "tracks", n)
	r.writePlain("%s %d tracks\n", ui.OK("✓ Removed"), n)
	return nil
}
