package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/zmb3/spotify/v2"
)

func spotifyTrackJSON(id, name string) map[string]any {
	return map[string]any{
		"id":          id,
		"name":        name,
		"duration_ms": 215000,
		"artists":     []map[string]any{{"name": "Daft Punk"}, {"name": "Pharrell Williams"}},
		"album": map[string]any{
			"name":   "Random Access Memories",
			"images": []map[string]any{{"url": "http://img/640"}, {"url": "http://img/300"}},
		},
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/track/" + id},
	}
}

func newSpotifyTestCatalog(t *testing.T, h http.HandlerFunc) *SpotifyCatalog {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewSpotifyCatalogWithClient(server.Client(), spotify.WithBaseURL(server.URL+"/"))
}

func TestSpotifyCatalog(t *testing.T) {
	t.Run("NewSpotifyCatalog requires credentials", func(t *testing.T) {
		_, err := NewSpotifyCatalog(context.Background(), shared.SpotifyConfig{ClientID: "id"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("NewSpotifyCatalog with credentials", func(t *testing.T) {
		c, err := NewSpotifyCatalog(context.Background(), shared.SpotifyConfig{ClientID: "id", ClientSecret: "secret"})
		if err != nil || c == nil {
			t.Fatalf("expected catalog, got %v", err)
		}
		if c.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", c.Name())
		}
	})

	t.Run("SearchTracks", func(t *testing.T) {
		catalog := newSpotifyTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("expected /search, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("type") != "track" || r.URL.Query().Get("q") != "get lucky" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			if r.URL.Query().Get("limit") != "2" {
				t.Errorf("expected limit 2, got %s", r.URL.Query().Get("limit"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"tracks": map[string]any{"items": []any{spotifyTrackJSON("t1", "Get Lucky"), spotifyTrackJSON("t2", "Get Lucky (Radio Edit)")}},
			})
		})

		tracks, err := catalog.SearchTracks(context.Background(), "get lucky", 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}

		got := tracks[0]
		if got.ID != "t1" || got.Name != "Get Lucky" || got.Album != "Random Access Memories" {
			t.Errorf("unexpected track %+v", got)
		}
		if len(got.Artists) != 2 || got.Artists[1] != "Pharrell Williams" {
			t.Errorf("unexpected artists %v", got.Artists)
		}
		if got.DurationMS != 215000 || got.ExternalURL != "https://open.spotify.com/track/t1" || got.Images[0] != "http://img/640" {
			t.Errorf("unexpected details %+v", got)
		}
	})

	t.Run("LookupTrack", func(t *testing.T) {
		catalog := newSpotifyTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tracks/t9" {
				t.Errorf("expected /tracks/t9, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(spotifyTrackJSON("t9", "Instant Crush"))
		})

		track, err := catalog.LookupTrack(context.Background(), "t9")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.Name != "Instant Crush" {
			t.Errorf("unexpected track %+v", track)
		}
	})

	t.Run("API error", func(t *testing.T) {
		catalog := newSpotifyTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"status": 401, "message": "invalid token"}})
		})

		if _, err := catalog.SearchTracks(context.Background(), "x", 1); !errors.Is(err, shared.ErrLookupFailure) {
			t.Errorf("expected ErrLookupFailure, got %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("FromCatalogTrack", func(t *testing.T) {
		track := FromCatalogTrack(CatalogTrack{ID: "abc", Name: " Song ", Artists: []string{"A", "B"}, DurationMS: 61999})
		if track.SourceURL != "https://open.spotify.com/track/abc" {
			t.Errorf("expected canonical url fallback, got %s", track.SourceURL)
		}
		if track.Title != "Song" || track.Artist != "A, B" || track.DurationSeconds != 61 {
			t.Errorf("unexpected track %+v", track)
		}
		if err := track.Validate(); err != nil {
			t.Errorf("normalized track should be valid: %v", err)
		}
	})

	t.Run("FromVideoHit", func(t *testing.T) {
		track := FromVideoHit(VideoHit{ID: "dQw4w9WgXcQ", Title: "T", Uploader: "U", DurationSeconds: -3})
		if track.SourceURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" || track.DurationSeconds != 0 {
			t.Errorf("unexpected track %+v", track)
		}
	})
}
