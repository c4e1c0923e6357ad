package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	"golang.org/x/time/rate"
)

// GatewayOpts configures a [Gateway]. Only YouTube is required.
type GatewayOpts struct {
	YouTube   VideoSearcher
	Spotify   Catalog // nil disables the Spotify provider
	Resolver  VideoResolver
	Cache     TrackCache
	RateLimit float64 // requests per second, per provider
	Burst     int
	Logger    *log.Logger
}

// Gateway is the single entry point for metadata lookups. It normalizes every
// backend payload into [models.Track] so nothing downstream branches on backend shape.
type Gateway struct {
	youtube  VideoSearcher
	spotify  Catalog
	resolver VideoResolver
	cache    TrackCache
	limiters map[models.Provider]*rate.Limiter
	logger   *log.Logger
}

// NewGateway builds a gateway from opts.
func NewGateway(opts GatewayOpts) *Gateway {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Gateway{
		youtube:  opts.YouTube,
		spotify:  opts.Spotify,
		resolver: opts.Resolver,
		cache:    opts.Cache,
		logger:   opts.Logger,
		limiters: map[models.Provider]*rate.Limiter{
			models.ProviderYouTube: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
			models.ProviderSpotify: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		},
	}
}

// SpotifyEnabled reports whether catalog credentials were configured.
func (g *Gateway) SpotifyEnabled() bool {
	return g.spotify != nil
}

// Search queries provider for at most limit tracks.
//
// With [models.ProviderAny] YouTube results come first, followed by Spotify results.
// A single failing provider is reported in [SearchResult.Warnings]; only when every
// attempted provider fails is [shared.ErrLookupFailure] returned. An unconfigured
// Spotify provider is skipped silently under Any and is [shared.ErrProviderUnavailable]
// when requested explicitly.
func (g *Gateway) Search(ctx context.Context, query string, provider models.Provider, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrValidation)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", shared.ErrValidation, limit)
	}

	var providers []models.Provider
	switch provider {
	case models.ProviderYouTube:
		providers = []models.Provider{models.ProviderYouTube}
	case models.ProviderSpotify:
		if !g.SpotifyEnabled() {
			return nil, fmt.Errorf("%w: spotify credentials are not configured", shared.ErrProviderUnavailable)
		}
		providers = []models.Provider{models.ProviderSpotify}
	case models.ProviderAny:
		providers = []models.Provider{models.ProviderYouTube}
		if g.SpotifyEnabled() {
			providers = append(providers, models.ProviderSpotify)
		}
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", shared.ErrValidation, provider)
	}

	result := &SearchResult{Query: query, Provider: provider, Tracks: []models.Track{}}
	var errs []error
	for _, p := range providers {
		tracks, err := g.searchProvider(ctx, p, query, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.logger.Warn("provider search failed", "provider", p, "query", query, "err", err)
			errs = append(errs, err)
			result.Warnings = append(result.Warnings, Warning{Provider: p, Message: err.Error(), Err: err})
			continue
		}
		result.Tracks = append(result.Tracks, tracks...)
	}

	if len(errs) == len(providers) {
		return nil, lookupError(errs)
	}

	g.logger.Debug("search complete", "query", query, "provider", provider, "results", len(result.Tracks))
	return result, nil
}

func (g *Gateway) searchProvider(ctx context.Context, p models.Provider, query string, limit int) ([]models.Track, error) {
	if err := g.wait(ctx, p); err != nil {
		return nil, err
	}

	switch p {
	case models.ProviderYouTube:
		if g.youtube == nil {
			return nil, fmt.Errorf("%w: youtube search is not configured", shared.ErrProviderUnavailable)
		}
		hits, err := g.youtube.SearchVideos(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		tracks := make([]models.Track, 0, min(len(hits), limit))
		for _, h := range hits[:min(len(hits), limit)] {
			tracks = append(tracks, FromVideoHit(h))
		}
		return tracks, nil
	default:
		items, err := g.spotify.SearchTracks(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		tracks := make([]models.Track, 0, min(len(items), limit))
		for _, c := range items[:min(len(items), limit)] {
			tracks = append(tracks, FromCatalogTrack(c))
		}
		return tracks, nil
	}
}

// ResolveByURL returns the track a pasted YouTube or Spotify link points to.
func (g *Gateway) ResolveByURL(ctx context.Context, raw string) (*models.Track, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: url is empty", shared.ErrValidation)
	}

	if id, ok := models.SpotifyTrackID(raw); ok {
		return g.cached(models.SpotifyTrackURL(id), func() (*models.Track, error) {
			if !g.SpotifyEnabled() {
				return nil, fmt.Errorf("%w: spotify credentials are not configured", shared.ErrProviderUnavailable)
			}
			if err := g.wait(ctx, models.ProviderSpotify); err != nil {
				return nil, err
			}
			ct, err := g.spotify.LookupTrack(ctx, id)
			if err != nil {
				return nil, err
			}
			t := FromCatalogTrack(*ct)
			return &t, nil
		})
	}

	if !isYouTubeURL(raw) {
		return nil, fmt.Errorf("%w: unsupported url %q", shared.ErrValidation, raw)
	}
	if g.resolver == nil {
		return nil, fmt.Errorf("%w: youtube url resolution is not configured", shared.ErrProviderUnavailable)
	}

	id, err := youtubeID(raw)
	if err != nil {
		return nil, err
	}
	return g.cached(models.YouTubeWatchURL(id), func() (*models.Track, error) {
		if err := g.wait(ctx, models.ProviderYouTube); err != nil {
			return nil, err
		}
		hit, err := g.resolver.ResolveVideo(ctx, raw)
		if err != nil {
			return nil, err
		}
		t := FromVideoHit(*hit)
		return &t, nil
	})
}

// cached consults the track cache before calling fetch, and stores what fetch returns.
// Cache errors are logged and otherwise ignored.
func (g *Gateway) cached(key string, fetch func() (*models.Track, error)) (*models.Track, error) {
	if g.cache != nil {
		if t, err := g.cache.GetTrack(key); err != nil {
			g.logger.Warn("track cache read failed", "url", key, "err", err)
		} else if t != nil {
			return t, nil
		}
	}

	t, err := fetch()
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if err := g.cache.PutTrack(*t); err != nil {
			g.logger.Warn("track cache write failed", "url", t.SourceURL, "err", err)
		}
	}
	return t, nil
}

func (g *Gateway) wait(ctx context.Context, p models.Provider) error {
	if l, ok := g.limiters[p]; ok {
		if err := l.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: %v", shared.ErrLookupFailure, err)
		}
	}
	return nil
}

// lookupError keeps a lone provider error that already carries a lookup sentinel
// and otherwise folds every error under [shared.ErrLookupFailure].
func lookupError(errs []error) error {
	if len(errs) == 1 {
		if errors.Is(errs[0], shared.ErrLookupFailure) || errors.Is(errs[0], shared.ErrProviderUnavailable) {
			return errs[0]
		}
	}
	return fmt.Errorf("%w: %w", shared.ErrLookupFailure, errors.Join(errs...))
}

func isYouTubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	return host == "youtube.com" || host == "music.youtube.com" || host == "youtu.be"
}

// youtubeID extracts the 11 character video id from watch, short and youtu.be links.
func youtubeID(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	var id string
	switch {
	case strings.EqualFold(u.Hostname(), "youtu.be"):
		id = strings.Trim(u.Path, "/")
	case u.Query().Get("v") != "":
		id = u.Query().Get("v")
	default:
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "shorts" || parts[0] == "embed" || parts[0] == "live") {
			id = parts[1]
		}
	}

	if len(id) != 11 {
		return "", fmt.Errorf("%w: no video id in %q", shared.ErrValidation, raw)
	}
	return id, nil
}
