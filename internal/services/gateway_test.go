package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
)

type fakeSearcher struct {
	hits  []VideoHit
	err   error
	calls int
}

func (f *fakeSearcher) SearchVideos(_ context.Context, _ string, limit int) ([]VideoHit, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeCatalog struct {
	tracks  []CatalogTrack
	err     error
	calls   int
	lookups int
}

func (f *fakeCatalog) SearchTracks(_ context.Context, _ string, _ int) ([]CatalogTrack, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeCatalog) LookupTrack(_ context.Context, id string) (*CatalogTrack, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return &CatalogTrack{ID: id, Name: "Looked Up", Artists: []string{"Artist"}}, nil
}

type fakeResolver struct {
	calls int
}

func (f *fakeResolver) ResolveVideo(_ context.Context, _ string) (*VideoHit, error) {
	f.calls++
	return &VideoHit{ID: "dQw4w9WgXcQ", Title: "Resolved", Uploader: "Uploader"}, nil
}

type memoryCache map[string]models.Track

func (m memoryCache) GetTrack(u string) (*models.Track, error) {
	if t, ok := m[u]; ok {
		return &t, nil
	}
	return nil, nil
}

func (m memoryCache) PutTrack(t models.Track) error {
	m[t.SourceURL] = t
	return nil
}

func quietGateway(opts GatewayOpts) *Gateway {
	opts.Logger = shared.NewLogger(io.Discard)
	opts.RateLimit = 1000
	opts.Burst = 10
	return NewGateway(opts)
}

func videoHits(n int) []VideoHit {
	hits := make([]VideoHit, n)
	for i := range hits {
		hits[i] = VideoHit{ID: string(rune('a'+i)) + "0123456789", Title: "yt"}
	}
	return hits
}

func TestGatewaySearch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query is rejected before any backend call", func(t *testing.T) {
		yt := &fakeSearcher{}
		g := quietGateway(GatewayOpts{YouTube: yt})
		if _, err := g.Search(ctx, "   ", models.ProviderAny, 5); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if _, err := g.Search(ctx, "ok", models.ProviderAny, 0); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation for zero limit, got %v", err)
		}
		if yt.calls != 0 {
			t.Errorf("expected no backend calls, got %d", yt.calls)
		}
	})

	t.Run("limit bounds each provider", func(t *testing.T) {
		g := quietGateway(GatewayOpts{YouTube: &fakeSearcher{hits: videoHits(5)}})
		res, err := g.Search(ctx, "song", models.ProviderYouTube, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Tracks) != 3 {
			t.Errorf("expected 3 tracks, got %d", len(res.Tracks))
		}
	})

	t.Run("any concatenates youtube then spotify", func(t *testing.T) {
		g := quietGateway(GatewayOpts{
			YouTube: &fakeSearcher{hits: videoHits(2)},
			Spotify: &fakeCatalog{tracks: []CatalogTrack{{ID: "s1", Name: "sp"}, {ID: "s2", Name: "sp"}}},
		})
		res, err := g.Search(ctx, "song", models.ProviderAny, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Tracks) != 4 {
			t.Fatalf("expected 4 tracks, got %d", len(res.Tracks))
		}
		want := []models.Provider{models.ProviderYouTube, models.ProviderYouTube, models.ProviderSpotify, models.ProviderSpotify}
		for i, p := range want {
			if res.Tracks[i].SourceProvider != p {
				t.Errorf("track %d: expected %s, got %s", i, p, res.Tracks[i].SourceProvider)
			}
		}
	})

	t.Run("one failing provider becomes a warning", func(t *testing.T) {
		g := quietGateway(GatewayOpts{
			YouTube: &fakeSearcher{err: errors.New("proxy down")},
			Spotify: &fakeCatalog{tracks: []CatalogTrack{{ID: "s1", Name: "sp"}}},
		})
		res, err := g.Search(ctx, "song", models.ProviderAny, 5)
		if err != nil {
			t.Fatalf("partial failure should not error: %v", err)
		}
		if len(res.Tracks) != 1 || len(res.Warnings) != 1 || res.Warnings[0].Provider != models.ProviderYouTube {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("all providers failing is a lookup failure", func(t *testing.T) {
		g := quietGateway(GatewayOpts{
			YouTube: &fakeSearcher{err: errors.New("proxy down")},
			Spotify: &fakeCatalog{err: errors.New("spotify down")},
		})
		if _, err := g.Search(ctx, "song", models.ProviderAny, 5); !errors.Is(err, shared.ErrLookupFailure) {
			t.Errorf("expected ErrLookupFailure, got %v", err)
		}
	})

	t.Run("unconfigured spotify", func(t *testing.T) {
		yt := &fakeSearcher{hits: videoHits(1)}
		g := quietGateway(GatewayOpts{YouTube: yt})

		res, err := g.Search(ctx, "song", models.ProviderAny, 5)
		if err != nil || len(res.Warnings) != 0 || len(res.Tracks) != 1 {
			t.Errorf("spotify should be omitted silently, got %+v, %v", res, err)
		}

		if _, err := g.Search(ctx, "song", models.ProviderSpotify, 5); !errors.Is(err, shared.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		g := quietGateway(GatewayOpts{YouTube: &fakeSearcher{hits: videoHits(1)}})
		if _, err := g.Search(cctx, "song", models.ProviderYouTube, 1); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestGatewayResolveByURL(t *testing.T) {
	ctx := context.Background()

	t.Run("youtube link uses resolver and cache", func(t *testing.T) {
		resolver := &fakeResolver{}
		cache := memoryCache{}
		g := quietGateway(GatewayOpts{Resolver: resolver, Cache: cache})

		for _, link := range []string{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"} {
			track, err := g.ResolveByURL(ctx, link)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if track.SourceURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" || track.Title != "Resolved" {
				t.Errorf("unexpected track %+v", track)
			}
		}
		if resolver.calls != 1 {
			t.Errorf("expected second lookup to hit the cache, resolver called %d times", resolver.calls)
		}
	})

	t.Run("spotify link uses catalog", func(t *testing.T) {
		catalog := &fakeCatalog{}
		g := quietGateway(GatewayOpts{Spotify: catalog})
		track, err := g.ResolveByURL(ctx, "https://open.spotify.com/track/abc123?si=x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if track.SourceProvider != models.ProviderSpotify || track.ProviderNativeID != "abc123" || catalog.lookups != 1 {
			t.Errorf("unexpected track %+v", track)
		}
	})

	t.Run("spotify link without credentials", func(t *testing.T) {
		g := quietGateway(GatewayOpts{})
		if _, err := g.ResolveByURL(ctx, "spotify:track:abc"); !errors.Is(err, shared.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("unsupported links", func(t *testing.T) {
		g := quietGateway(GatewayOpts{Resolver: &fakeResolver{}})
		for _, link := range []string{"", "https://soundcloud.com/a/b", "https://www.youtube.com/feed/trending"} {
			if _, err := g.ResolveByURL(ctx, link); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("%q: expected ErrValidation, got %v", link, err)
			}
		}
	})
}

func TestYoutubeID(t *testing.T) {
	tc := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":      "dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ&x=1": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                      "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":        "dQw4w9WgXcQ",
	}
	for in, want := range tc {
		got, err := youtubeID(in)
		if err != nil || got != want {
			t.Errorf("youtubeID(%q) = %q, %v", in, got, err)
		}
	}
}
