package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/ytbox/internal/formatter"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/session"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/tasks"
	"github.com/desertthunder/ytbox/internal/ui"
	"github.com/urfave/cli/v3"
)

const shellHelp = `Commands (track numbers start at 1):
  search [-p youtube|spotify] <query>   search and list results
  resolve <url>                         look up a pasted link and select it
  select <n>                            select a search result
  play [n]                              play the selection (or result n)
  stop                                  stop playback
  add                                   add the selection to the active playlist
  addurls <url> [url...]                resolve links and add them
  rm <n> [playlist]                     remove a track
  new <name>                            create a playlist and switch to it
  use <name>                            switch the active playlist
  clear [playlist]                      empty a playlist (asks first)
  show [playlist]                       show results, playback and playlists
  download                              download the selection
  batch [bundle|individual]             download the active playlist
  export [json|csv|markdown|txt]        export the active playlist
  import <file>                         merge an exported playlist
  upload <file>                         add a track to your creator inventory
  uploads                               list your uploads
  listen <id>                           count a play of an upload
  promote <id> <basic|featured|premium> get a promotion payment link
  earnings                              estimated earnings
  clean                                 purge downloads from the working area
  quit                                  leave the shell`

// Shell runs an interactive session, one command per line, until quit or end of input.
func (r *Runner) Shell(ctx context.Context, cmd *cli.Command) error {
	sess, done, err := r.newSession()
	if err != nil {
		return err
	}
	defer done()

	sh := &shell{
		r:       r,
		sess:    sess,
		outDir:  cmd.String("output"),
		open:    cmd.Bool("open"),
		scanner: bufio.NewScanner(r.input),
	}
	return sh.run(ctx)
}

type shell struct {
	r       *Runner
	sess    *session.Session
	outDir  string
	open    bool
	scanner *bufio.Scanner
}

func (s *shell) run(ctx context.Context) error {
	s.r.writePlain("%s %s\n", ui.Title("ytbox"), ui.Help("type 'help' for commands"))
	for {
		line, ok := s.prompt("ytbox> ")
		if !ok {
			return s.scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if line == "" {
			continue
		}

		name, args, _ := strings.Cut(line, " ")
		name, args = strings.ToLower(name), strings.TrimSpace(args)
		if name == "quit" || name == "exit" {
			return nil
		}

		if err := s.exec(ctx, name, args); err != nil {
			s.report(err)
		}
	}
}

func (s *shell) prompt(label string) (string, bool) {
	s.r.writePlain("%s", label)
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

func (s *shell) report(err error) {
	if errors.Is(err, shared.ErrDuplicateTrack) || errors.Is(err, shared.ErrConfirmationRequired) {
		s.r.writePlain("%s\n", ui.Warn(err.Error()))
		return
	}
	s.r.writePlain("%s\n", ui.Err("error: "+err.Error()))
}

func (s *shell) ok(format string, args ...any) {
	s.r.writePlain("%s\n", ui.OK(fmt.Sprintf(format, args...)))
}

func (s *shell) exec(ctx context.Context, name, args string) error {
	c, sess := s.r.commands, s.sess

	switch name {
	case "help", "?":
		s.r.writePlain("%s\n", shellHelp)
		return nil

	case "search":
		return s.search(ctx, args)

	case "resolve":
		t, err := c.ResolveURL(ctx, sess, args)
		if err != nil {
			return err
		}
		s.r.writePlain("%s\n", ui.TrackLine(1, t, true))
		return nil

	case "select":
		i, err := parseIndex(args)
		if err != nil {
			return err
		}
		t, err := c.Select(ctx, sess, i)
		if err != nil {
			return err
		}
		s.ok("Selected %s", t.String())
		return nil

	case "play":
		if args != "" {
			i, err := parseIndex(args)
			if err != nil {
				return err
			}
			if _, err := c.Select(ctx, sess, i); err != nil {
				return err
			}
		}
		t, err := c.Play(ctx, sess, nil)
		if err != nil {
			return err
		}
		s.ok("▶ Now playing %s", t.String())
		s.r.writePlain("%s\n", ui.Help(t.SourceURL))
		return nil

	case "stop":
		if err := c.Stop(ctx, sess); err != nil {
			return err
		}
		s.ok("■ Stopped")
		return nil

	case "add":
		t, err := c.AddSelected(ctx, sess)
		if err != nil {
			return err
		}
		s.ok("Added %s", t.String())
		return nil

	case "addurls":
		res, err := c.AddURLs(ctx, sess, strings.Fields(args))
		if err != nil {
			return err
		}
		s.ok("Added %d, skipped %d duplicates", res.Added, res.Skipped)
		for _, f := range res.Failures {
			s.r.writePlain("%s\n", ui.Warn(fmt.Sprintf("  %s: %s", f.Title, f.Reason)))
		}
		return nil

	case "rm":
		idx, playlist, _ := strings.Cut(args, " ")
		i, err := parseIndex(idx)
		if err != nil {
			return err
		}
		t, err := c.Remove(ctx, sess, strings.TrimSpace(playlist), i)
		if err != nil {
			return err
		}
		s.ok("Removed %s", t.String())
		return nil

	case "new":
		if err := c.CreatePlaylist(ctx, sess, args); err != nil {
			return err
		}
		s.ok("Created and switched to %q", args)
		return nil

	case "use":
		if err := c.UsePlaylist(ctx, sess, args); err != nil {
			return err
		}
		s.ok("Switched to %q", args)
		return nil

	case "clear":
		return s.clear(ctx, args)

	case "show":
		return s.show(ctx, args)

	case "download":
		sink := &tasks.DirSink{Dir: s.outDir}
		res, err := c.DownloadSelected(ctx, sess, sink)
		if err != nil {
			return err
		}
		s.saved(sink)
		if res.ResolvedTrack != nil {
			s.r.writePlain("%s\n", ui.Help(fmt.Sprintf("matched %s (confidence %.2f)", res.ResolvedTrack.String(), res.MatchConfidence)))
		}
		return nil

	case "batch":
		mode, err := models.ParseBatchMode(args)
		if err != nil {
			return err
		}
		sink := &tasks.DirSink{Dir: s.outDir}
		result, err := c.DownloadPlaylist(ctx, sess, "", mode, s.r.progress, sink)
		if result != nil {
			s.r.writePlain("\n%s", ui.BatchSummary(result))
			s.saved(sink)
		}
		return err

	case "export":
		format := formatter.FormatJSON
		if args != "" {
			f, err := formatter.ParseFormat(args)
			if err != nil {
				return err
			}
			format = f
		}
		sink := &tasks.DirSink{Dir: s.outDir}
		if _, err := c.Export(ctx, sess, "", format, sink); err != nil {
			return err
		}
		s.saved(sink)
		return nil

	case "import":
		f, err := os.Open(args)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
		}
		defer f.Close()
		n, err := c.Import(ctx, sess, f)
		if err != nil {
			return err
		}
		s.ok("Imported %d new tracks", n)
		return nil

	case "upload":
		return s.upload(ctx, args)

	case "uploads":
		ups, err := c.Uploads(ctx, sess)
		if err != nil {
			return err
		}
		if len(ups) == 0 {
			s.r.writePlain("%s\n", ui.Help("  (no uploads)"))
		}
		for _, u := range ups {
			line := fmt.Sprintf("  %s  %s - %s  %d plays", u.ID, u.Title, u.Artist, u.Plays)
			if u.Promoted != "" {
				line += " " + ui.OK("["+u.Promoted+"]")
			}
			s.r.writePlain("%s\n", line)
		}
		return nil

	case "listen":
		up, err := c.PlayUpload(ctx, sess, args)
		if err != nil {
			return err
		}
		s.ok("▶ %s (%d plays)", up.Title, up.Plays)
		return nil

	case "promote":
		fields := strings.Fields(args)
		if len(fields) != 2 {
			return fmt.Errorf("%w: usage: promote <id> <tier>", shared.ErrValidation)
		}
		promo, err := c.Promote(ctx, sess, fields[0], fields[1])
		if err != nil {
			return err
		}
		s.ok("%s promotion: %s", promo.Tier, promo.Price)
		s.r.writePlain("Complete payment at %s\n", promo.Link)
		if s.open {
			if err := s.r.openURL(promo.Link); err != nil {
				s.report(err)
			}
		}
		return nil

	case "earnings":
		total, err := c.Earnings(ctx, sess)
		if err != nil {
			return err
		}
		s.ok("Estimated earnings: %s", total.Display())
		return nil

	case "clean":
		n, err := c.CleanWorkdir(ctx, sess)
		if err != nil {
			return err
		}
		s.ok("Removed %d files", n)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q, try 'help'", shared.ErrValidation, name)
	}
}

func (s *shell) search(ctx context.Context, args string) error {
	provider := models.ProviderAny
	if rest, ok := strings.CutPrefix(args, "-p "); ok {
		name, query, _ := strings.Cut(strings.TrimSpace(rest), " ")
		p, err := models.ParseProvider(name)
		if err != nil {
			return err
		}
		provider, args = p, strings.TrimSpace(query)
	}

	res, err := s.r.commands.Search(ctx, s.sess, args, provider, 0)
	if err != nil {
		return err
	}
	s.r.writePlain("%s", ui.TrackList(res.Tracks, -1))
	for _, w := range res.Warnings {
		s.r.writePlain("%s\n", ui.Warn(fmt.Sprintf("%s: %s", w.Provider.Label(), w.Message)))
	}
	return nil
}

func (s *shell) clear(ctx context.Context, name string) error {
	p, err := s.r.commands.Playlist(ctx, s.sess, name)
	if err != nil {
		return err
	}

	answer, _ := s.prompt(fmt.Sprintf("Remove all %d tracks from %q? [y/N] ", p.Len(), p.Name))
	confirmed := strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	if !confirmed {
		s.r.writePlain("%s\n", ui.Help("cancelled"))
		return nil
	}

	n, err := s.r.commands.ClearPlaylist(ctx, s.sess, p.Name, true)
	if err != nil {
		return err
	}
	s.ok("Cleared %d tracks from %q", n, p.Name)
	return nil
}

func (s *shell) show(ctx context.Context, name string) error {
	if name != "" {
		p, err := s.r.commands.Playlist(ctx, s.sess, name)
		if err != nil {
			return err
		}
		s.r.writePlain("%s", ui.PlaylistView(p, false))
		return nil
	}

	snap, err := s.r.commands.Snapshot(ctx, s.sess)
	if err != nil {
		return err
	}

	marked := -1
	if snap.Selected != nil {
		for i, t := range snap.SearchResults {
			if t.SameSong(*snap.Selected) {
				marked = i
				break
			}
		}
	}
	s.r.writePlain("%s\n%s", ui.Title("Results"), ui.TrackList(snap.SearchResults, marked))

	if snap.NowPlaying != nil {
		s.r.writePlain("%s %s\n", ui.Title("Now playing:"), snap.NowPlaying.String())
	}
	for _, p := range snap.Playlists {
		s.r.writePlain("%s", ui.PlaylistView(p, p.Name == snap.Active))
	}
	return nil
}

func (s *shell) upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
	}
	defer f.Close()

	title, _ := s.prompt("Title: ")
	artist, _ := s.prompt("Artist: ")
	genre, _ := s.prompt("Genre (optional): ")

	up, err := s.r.commands.Upload(ctx, s.sess, title, artist, genre, filepath.Base(path), f)
	if err != nil {
		return err
	}
	s.ok("Uploaded %s - %s as %s", up.Title, up.Artist, up.ID)
	return nil
}

func (s *shell) saved(sink *tasks.DirSink) {
	for _, path := range sink.Saved {
		s.r.writePlain("%s %s\n", ui.OK("✓ Saved"), path)
	}
}

// parseIndex converts a one based track number into a zero based index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a track number", shared.ErrValidation, s)
	}
	return n - 1, nil
}
