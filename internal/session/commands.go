package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/acquisition"
	"github.com/desertthunder/ytbox/internal/archive"
	"github.com/desertthunder/ytbox/internal/creator"
	"github.com/desertthunder/ytbox/internal/formatter"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/services"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/tasks"
)

// Lookup is the metadata capability commands need; [services.Gateway] satisfies it.
type Lookup interface {
	Search(ctx context.Context, query string, provider models.Provider, limit int) (*services.SearchResult, error)
	ResolveByURL(ctx context.Context, raw string) (*models.Track, error)
}

// Deps are the collaborators shared by every session.
type Deps struct {
	Lookup        Lookup
	Acquisition   *acquisition.Service
	Links         creator.LinkCreator
	Currency      string
	RatePerStream float64
	DefaultLimit  int
	Logger        *log.Logger
	Now           func() time.Time
}

// Commands are the user level operations, each run against one [Session].
//
// A failed command leaves the session state as it was.
type Commands struct {
	deps Deps
}

// NewCommands fills defaults and returns the command set.
func NewCommands(deps Deps) *Commands {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.DefaultLimit <= 0 {
		deps.DefaultLimit = 10
	}
	if deps.Links == nil {
		deps.Links = creator.SimulatedLinks{}
	}
	if deps.Currency == "" {
		deps.Currency = money.USD
	}
	return &Commands{deps: deps}
}

// Search replaces the session's results with a fresh lookup. limit <= 0 uses the default.
func (c *Commands) Search(ctx context.Context, sess *Session, query string, provider models.Provider, limit int) (*services.SearchResult, error) {
	if limit <= 0 {
		limit = c.deps.DefaultLimit
	}
	var result *services.SearchResult
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		res, err := c.deps.Lookup.Search(ctx, query, provider, limit)
		if err != nil {
			return err
		}
		st.SetSearchResults(res.Tracks)
		result = res
		return nil
	})
	return result, err
}

// Select highlights a search result (zero based).
func (c *Commands) Select(ctx context.Context, sess *Session, index int) (models.Track, error) {
	var track models.Track
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		t, err := st.Select(index)
		track = t
		return err
	})
	return track, err
}

// ResolveURL looks up a pasted link and makes it the only, selected, search result.
func (c *Commands) ResolveURL(ctx context.Context, sess *Session, raw string) (models.Track, error) {
	var track models.Track
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		t, err := c.deps.Lookup.ResolveByURL(ctx, raw)
		if err != nil {
			return err
		}
		st.SetSearchResults([]models.Track{*t})
		track, err = st.Select(0)
		return err
	})
	return track, err
}

// AddSelected appends the highlighted track to the active playlist.
func (c *Commands) AddSelected(ctx context.Context, sess *Session) (models.Track, error) {
	var track models.Track
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		t, ok := st.Selected()
		if !ok {
			return shared.ErrNothingSelected
		}
		track = t
		return st.AddToActive(t)
	})
	return track, err
}

// AddTrack appends track to the active playlist.
func (c *Commands) AddTrack(ctx context.Context, sess *Session, track models.Track) error {
	return sess.Do(ctx, func(_ context.Context, st *State) error {
		return st.AddToActive(track)
	})
}

// AddURLsResult summarizes [Commands.AddURLs].
type AddURLsResult struct {
	Added    int                  `json:"added"`
	Skipped  int                  `json:"skipped"`
	Failures []models.ItemFailure `json:"failures,omitempty"`
}

// AddURLs resolves each link and appends it to the active playlist. Links that fail
// to resolve are reported and the rest continue; tracks already present are skipped.
func (c *Commands) AddURLs(ctx context.Context, sess *Session, urls []string) (AddURLsResult, error) {
	var result AddURLsResult
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		var err error
		result, err = c.addURLs(ctx, st, urls)
		return err
	})
	return result, err
}

func (c *Commands) addURLs(ctx context.Context, st *State, urls []string) (AddURLsResult, error) {
	var result AddURLsResult
	step := 0
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		step++
		if err := ctx.Err(); err != nil {
			return result, err
		}

		t, err := c.deps.Lookup.ResolveByURL(ctx, raw)
		if err == nil {
			err = st.AddToActive(*t)
		}
		switch {
		case err == nil:
			result.Added++
		case errors.Is(err, shared.ErrDuplicateTrack):
			result.Skipped++
		default:
			result.Failures = append(result.Failures, models.ItemFailure{
				Index: step, Title: raw, Reason: err.Error(), Kind: shared.ErrorKind(err),
			})
		}
	}
	return result, nil
}

// AddRequest names what [Commands.AddToPlaylist] appends: links to resolve, a
// track, or the selection when both are empty.
type AddRequest struct {
	URLs  []string
	Track *models.Track
}

// AddOutcome reports what [Commands.AddToPlaylist] did. Track is set for single
// adds and URLs for link lists.
type AddOutcome struct {
	Track *models.Track
	URLs  *AddURLsResult
}

// AddToPlaylist activates the named playlist and appends to it as one command.
// On error the previously active playlist is restored.
func (c *Commands) AddToPlaylist(ctx context.Context, sess *Session, name string, req AddRequest) (AddOutcome, error) {
	var out AddOutcome
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		prev := st.ActiveName()
		if err := st.SetActivePlaylist(name); err != nil {
			return err
		}

		var err error
		switch {
		case len(req.URLs) > 0:
			var res AddURLsResult
			res, err = c.addURLs(ctx, st, req.URLs)
			out.URLs = &res
		case req.Track != nil:
			t := *req.Track
			if err = st.AddToActive(t); err == nil {
				out.Track = &t
			}
		default:
			t, ok := st.Selected()
			if !ok {
				err = shared.ErrNothingSelected
			} else if err = st.AddToActive(t); err == nil {
				out.Track = &t
			}
		}

		if err != nil {
			out = AddOutcome{}
			if restoreErr := st.SetActivePlaylist(prev); restoreErr != nil {
				return errors.Join(err, restoreErr)
			}
		}
		return err
	})
	return out, err
}

// Remove deletes the track at index (zero based) from a playlist; empty name means the active one.
func (c *Commands) Remove(ctx context.Context, sess *Session, name string, index int) (models.Track, error) {
	var track models.Track
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		if name == "" {
			name = st.ActiveName()
		}
		t, err := st.RemoveFromPlaylist(name, index)
		track = t
		return err
	})
	return track, err
}

// CreatePlaylist adds an empty playlist and activates it.
func (c *Commands) CreatePlaylist(ctx context.Context, sess *Session, name string) error {
	return sess.Do(ctx, func(_ context.Context, st *State) error {
		return st.CreatePlaylist(name)
	})
}

// UsePlaylist activates an existing playlist.
func (c *Commands) UsePlaylist(ctx context.Context, sess *Session, name string) error {
	return sess.Do(ctx, func(_ context.Context, st *State) error {
		return st.SetActivePlaylist(name)
	})
}

// ClearPlaylist empties a playlist once the user confirmed; empty name means the active one.
func (c *Commands) ClearPlaylist(ctx context.Context, sess *Session, name string, confirmed bool) (int, error) {
	var n int
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		if name == "" {
			name = st.ActiveName()
		}
		var err error
		n, err = st.ClearPlaylist(name, confirmed)
		return err
	})
	return n, err
}

// Play sets the playback target to track, or to the selection when track is nil.
func (c *Commands) Play(ctx context.Context, sess *Session, track *models.Track) (models.Track, error) {
	var playing models.Track
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		if track == nil {
			t, ok := st.Selected()
			if !ok {
				return shared.ErrNothingSelected
			}
			track = &t
		} else if err := track.Validate(); err != nil {
			return err
		}
		st.SetNowPlaying(*track)
		playing = *track
		return nil
	})
	return playing, err
}

// Stop clears the playback target.
func (c *Commands) Stop(ctx context.Context, sess *Session) error {
	return sess.Do(ctx, func(_ context.Context, st *State) error {
		st.ClearNowPlaying()
		return nil
	})
}

// Playlist returns a copy of a playlist; empty name means the active one.
func (c *Commands) Playlist(ctx context.Context, sess *Session, name string) (*models.Playlist, error) {
	var p *models.Playlist
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		if name == "" {
			name = st.ActiveName()
		}
		var err error
		p, err = st.Playlist(name)
		return err
	})
	return p, err
}

// Snapshot copies the session state.
func (c *Commands) Snapshot(ctx context.Context, sess *Session) (Snapshot, error) {
	var snap Snapshot
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		snap = st.Snapshot()
		return nil
	})
	return snap, err
}

// DownloadSelected acquires the highlighted track and offers it to sink.
func (c *Commands) DownloadSelected(ctx context.Context, sess *Session, sink tasks.Sink) (models.AcquisitionResult, error) {
	var res models.AcquisitionResult
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		t, ok := st.Selected()
		if !ok {
			return shared.ErrNothingSelected
		}
		var err error
		res, err = c.download(ctx, sess, t, sink)
		return err
	})
	return res, err
}

// DownloadURL resolves a pasted link, acquires it and offers it to sink. The
// resolved track becomes the only, selected, search result once the download
// succeeded; a failure leaves the results untouched.
func (c *Commands) DownloadURL(ctx context.Context, sess *Session, raw string, sink tasks.Sink) (models.AcquisitionResult, error) {
	var res models.AcquisitionResult
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		t, err := c.deps.Lookup.ResolveByURL(ctx, raw)
		if err != nil {
			return err
		}
		if res, err = c.download(ctx, sess, *t, sink); err != nil {
			return err
		}
		st.SetSearchResults([]models.Track{*t})
		_, err = st.Select(0)
		return err
	})
	return res, err
}

// DownloadTrack acquires track and offers it to sink.
func (c *Commands) DownloadTrack(ctx context.Context, sess *Session, track models.Track, sink tasks.Sink) (models.AcquisitionResult, error) {
	var res models.AcquisitionResult
	err := sess.Do(ctx, func(ctx context.Context, _ *State) error {
		var err error
		res, err = c.download(ctx, sess, track, sink)
		return err
	})
	return res, err
}

func (c *Commands) download(ctx context.Context, sess *Session, track models.Track, sink tasks.Sink) (models.AcquisitionResult, error) {
	if c.deps.Acquisition == nil {
		return models.AcquisitionResult{}, fmt.Errorf("%w: acquisition is not configured", shared.ErrProviderUnavailable)
	}
	res := c.deps.Acquisition.In(sess.Dir).Acquire(ctx, track)
	if !res.Succeeded {
		return res, res.Err
	}
	if sink != nil {
		if err := tasks.OfferFile(ctx, sink, res.ArtifactPath, tasks.AudioMimeType(res.ArtifactPath)); err != nil {
			return res, err
		}
	}
	return res, nil
}

// DownloadPlaylist batch downloads a playlist (empty name means the active one) into
// the session working area and delivers the outcome to sink when it is non-nil.
func (c *Commands) DownloadPlaylist(ctx context.Context, sess *Session, name string, mode models.BatchMode, progress tasks.ProgressFunc, sink tasks.Sink) (*models.BatchResult, error) {
	if c.deps.Acquisition == nil {
		return nil, fmt.Errorf("%w: acquisition is not configured", shared.ErrProviderUnavailable)
	}

	var result *models.BatchResult
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		if name == "" {
			name = st.ActiveName()
		}
		p, err := st.Playlist(name)
		if err != nil {
			return err
		}

		logger := sess.Logger()
		engine := tasks.NewPlaylistEngine(c.deps.Acquisition.In(sess.Dir), archive.NewBuilder(sess.Dir, logger), logger)
		result, err = engine.BatchDownload(ctx, p, mode, progress)
		if err != nil {
			return err
		}
		if sink != nil {
			return tasks.Deliver(ctx, sink, result)
		}
		return nil
	})
	return result, err
}

// Export renders a playlist (empty name means the active one) and offers it to sink.
// It returns the offered file name.
func (c *Commands) Export(ctx context.Context, sess *Session, name string, format formatter.Format, sink tasks.Sink) (string, error) {
	var filename string
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		if name == "" {
			name = st.ActiveName()
		}
		doc, err := st.ExportPlaylist(name, c.deps.Now())
		if err != nil {
			return err
		}
		data, err := formatter.Render(doc, format)
		if err != nil {
			return err
		}
		filename = formatter.Filename(doc, format)
		return sink.Offer(ctx, data, filename, format.MimeType())
	})
	return filename, err
}

// Import merges an exported playlist document into the active playlist and returns
// how many tracks were new.
func (c *Commands) Import(ctx context.Context, sess *Session, r io.Reader) (int, error) {
	doc, err := formatter.ParsePlaylistDocument(r)
	if err != nil {
		return 0, err
	}

	var added int
	err = sess.Do(ctx, func(_ context.Context, st *State) error {
		added = st.ImportDocument(*doc)
		return nil
	})
	return added, err
}

// ImportResult reports where a document was merged.
type ImportResult struct {
	Playlist string `json:"playlist"`
	Added    int    `json:"added"`
}

// ImportPlaylist merges a playlist document into the playlist it names, creating
// that playlist when missing, and leaves it active. A document without a name
// merges into the active playlist.
func (c *Commands) ImportPlaylist(ctx context.Context, sess *Session, r io.Reader) (ImportResult, error) {
	doc, err := formatter.ParsePlaylistDocument(r)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	err = sess.Do(ctx, func(_ context.Context, st *State) error {
		name := strings.TrimSpace(doc.Name)
		switch {
		case name == "":
			name = st.ActiveName()
		case slices.Contains(st.PlaylistNames(), name):
			if err := st.SetActivePlaylist(name); err != nil {
				return err
			}
		default:
			if err := st.CreatePlaylist(name); err != nil {
				return err
			}
		}
		res = ImportResult{Playlist: name, Added: st.ImportDocument(*doc)}
		return nil
	})
	return res, err
}

// CleanWorkdir purges finished and partial downloads from the working area.
func (c *Commands) CleanWorkdir(ctx context.Context, sess *Session) (int, error) {
	return sess.CleanWorkdir(ctx)
}

// Upload stores a creator file in the session and registers it in the inventory.
func (c *Commands) Upload(ctx context.Context, sess *Session, title, artist, genre, filename string, r io.Reader) (models.UploadedTrack, error) {
	var up models.UploadedTrack
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("%w: reading upload: %v", shared.ErrFilesystem, err)
		}
		up, err = creator.NewUpload(title, artist, genre, filename, int64(len(data)), c.deps.Now())
		if err != nil {
			return err
		}

		dir := filepath.Join(sess.Dir, "uploads")
		if err := shared.EnsureDir(dir); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, up.ID+"_"+up.Filename), data, 0o644); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrFilesystem, err)
		}
		st.RegisterUpload(up)
		return nil
	})
	return up, err
}

// PlayUpload counts a play of an uploaded track.
func (c *Commands) PlayUpload(ctx context.Context, sess *Session, id string) (models.UploadedTrack, error) {
	var up models.UploadedTrack
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		var err error
		up, err = st.RecordPlay(id)
		return err
	})
	return up, err
}

// Uploads lists the creator inventory.
func (c *Commands) Uploads(ctx context.Context, sess *Session) ([]models.UploadedTrack, error) {
	var ups []models.UploadedTrack
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		ups = st.Uploads()
		return nil
	})
	return ups, err
}

// Promote requests a payment link for promoting an upload at tier.
func (c *Commands) Promote(ctx context.Context, sess *Session, id, tier string) (creator.Promotion, error) {
	var promo creator.Promotion
	err := sess.Do(ctx, func(ctx context.Context, st *State) error {
		up, err := st.Upload(id)
		if err != nil {
			return err
		}
		promo, err = creator.Promote(ctx, c.deps.Links, up, tier, c.deps.Currency)
		if err != nil {
			return err
		}
		return st.MarkPromoted(id, promo.Tier)
	})
	return promo, err
}

// Earnings estimates creator earnings from play counts.
func (c *Commands) Earnings(ctx context.Context, sess *Session) (*money.Money, error) {
	var total *money.Money
	err := sess.Do(ctx, func(_ context.Context, st *State) error {
		total = creator.Earnings(st.Uploads(), c.deps.RatePerStream, c.deps.Currency)
		return nil
	})
	return total, err
}
