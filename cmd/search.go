package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search runs a one-off search and prints the results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	provider, err := models.ParseProvider(cmd.String("provider"))
	if err != nil {
		return err
	}
	if r.lookup == nil {
		return fmt.Errorf("%w: lookup is not configured", shared.ErrProviderUnavailable)
	}

	sess, done, err := r.newSession()
	if err != nil {
		return err
	}
	defer done()

	r.logger.Debug("searching", "query", query, "provider", provider)
	res, err := r.commands.Search(ctx, sess, query, provider, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(res, true)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%s)", res.Query, provider.Label()))
	r.writePlain("%s", ui.TrackList(res.Tracks, -1))
	for _, w := range res.Warnings {
		r.writePlain("%s\n", ui.Warn(fmt.Sprintf("%s: %s", w.Provider.Label(), w.Message)))
	}
	return nil
}

// Resolve prints the metadata of a pasted link.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: a url is required", shared.ErrValidation)
	}
	if r.lookup == nil {
		return fmt.Errorf("%w: lookup is not configured", shared.ErrProviderUnavailable)
	}

	t, err := r.lookup.ResolveByURL(ctx, url)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(t, true)
	}
	r.writePlain("%s\n", ui.TrackLine(1, *t, false))
	r.writePlain("%s\n", ui.Help(t.SourceURL))
	return nil
}
