package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/ytbox/internal/shared"
)

func TestYouTubeService(t *testing.T) {
	t.Run("NewYouTubeService", func(t *testing.T) {
		t.Run("creates service with default URL", func(t *testing.T) {
			if svc := NewYouTubeService("", nil); svc.baseURL != defaultYTBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultYTBaseURL, svc.baseURL)
			}
		})

		t.Run("creates service with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000"
			if svc := NewYouTubeService(customURL, nil); svc.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, svc.baseURL)
			}
		})
	})

	t.Run("SearchVideos", func(t *testing.T) {
		mockResults := []map[string]any{
			{
				"videoId":  "dQw4w9WgXcQ",
				"title":    "Never Gonna Give You Up",
				"artists":  []map[string]any{{"name": "Rick Astley", "id": "UC1"}},
				"album":    map[string]any{"name": "Whenever You Need Somebody"},
				"duration": "3:33",
				"thumbnails": []map[string]any{
					{"url": "http://img/small", "width": 60, "height": 60},
					{"url": "http://img/large", "width": 544, "height": 544},
				},
			},
			{"videoId": "", "title": "no id, skipped"},
			{"videoId": "abcdefghijk", "title": "Second", "duration_seconds": 200},
			{"videoId": "bcdefghijkl", "title": "Third"},
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/search" {
				t.Errorf("expected path /api/search, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("q"); got != "rick astley" {
				t.Errorf("expected query 'rick astley', got %q", got)
			}
			if r.URL.Query().Get("filter") != "songs" || r.URL.Query().Get("limit") != "2" {
				t.Errorf("unexpected query params %s", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(mockResults)
		}))
		defer server.Close()

		hits, err := NewYouTubeService(server.URL, server.Client()).SearchVideos(context.Background(), "rick astley", 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(hits) != 2 {
			t.Fatalf("expected 2 hits, got %d", len(hits))
		}

		first := hits[0]
		if first.ID != "dQw4w9WgXcQ" || first.Uploader != "Rick Astley" || first.Album != "Whenever You Need Somebody" {
			t.Errorf("unexpected first hit %+v", first)
		}
		if first.DurationSeconds != 213 {
			t.Errorf("expected clock duration to parse to 213, got %d", first.DurationSeconds)
		}
		if first.Thumbnail != "http://img/large" {
			t.Errorf("expected largest thumbnail, got %s", first.Thumbnail)
		}
		if hits[1].DurationSeconds != 200 {
			t.Errorf("expected numeric duration to win, got %d", hits[1].DurationSeconds)
		}
	})

	t.Run("proxy error detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"detail": "upstream down"})
		}))
		defer server.Close()

		_, err := NewYouTubeService(server.URL, nil).SearchVideos(context.Background(), "x", 1)
		if !errors.Is(err, shared.ErrLookupFailure) {
			t.Fatalf("expected ErrLookupFailure, got %v", err)
		}
		if got := err.Error(); !strings.Contains(got, "upstream down") {
			t.Errorf("expected detail in error, got %s", got)
		}
	})

	t.Run("unreachable proxy", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		if _, err := NewYouTubeService(url, nil).SearchVideos(context.Background(), "x", 1); !errors.Is(err, shared.ErrLookupFailure) {
			t.Errorf("expected ErrLookupFailure, got %v", err)
		}
	})
}

func TestParseClock(t *testing.T) {
	tc := map[string]int{"": 0, "3:33": 213, "1:02:03": 3723, "45": 45, "a:10": 0, "-1:00": 0}
	for in, want := range tc {
		if got := parseClock(in); got != want {
			t.Errorf("parseClock(%q) = %d, want %d", in, got, want)
		}
	}
}
