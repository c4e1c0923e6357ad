package ui

import (
	"strings"
	"testing"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/tasks"
)

func track(title, artist string, secs int) models.Track {
	return models.Track{
		Title:           title,
		Artist:          artist,
		DurationSeconds: secs,
		SourceProvider:  models.ProviderYouTube,
		SourceURL:       models.YouTubeWatchURL("aaaaaaaaaaa"),
	}
}

func TestTrackList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := TrackList(nil, -1); !strings.Contains(got, "no tracks") {
			t.Errorf("expected placeholder, got %q", got)
		}
	})

	t.Run("numbers and marks", func(t *testing.T) {
		got := TrackList([]models.Track{track("One", "A", 61), track("Two", "B", 125)}, 1)
		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
		}
		if !strings.Contains(lines[0], " 1. One - A [1:01]") {
			t.Errorf("unexpected first line %q", lines[0])
		}
		if !strings.Contains(lines[1], "> ") || !strings.Contains(lines[1], "Two - B [2:05]") {
			t.Errorf("expected marked second line, got %q", lines[1])
		}
		if strings.Contains(lines[0], "> ") {
			t.Errorf("first line should not be marked: %q", lines[0])
		}
	})
}

func TestPlaylistView(t *testing.T) {
	p := models.NewPlaylist("Road Trip")
	p.Tracks = append(p.Tracks, track("One", "A", 61))

	got := PlaylistView(p, true)
	for _, want := range []string{"Road Trip", "*", "(1 tracks)", "One - A"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestBatchSummary(t *testing.T) {
	r := &models.BatchResult{
		Playlist:     "Mix",
		Mode:         models.BatchBundle,
		Successes:    []models.AcquisitionResult{{Track: track("One", "A", 61), Succeeded: true, ArtifactPath: "/tmp/01_One.mp3"}},
		FailureCount: 1,
		Failures:     []models.ItemFailure{{Index: 2, Title: "Two", Reason: "no match found"}},
		ArchivePath:  "/tmp/Mix.zip",
	}

	got := BatchSummary(r)
	for _, want := range []string{"Mix (bundle)", "1/2", "/tmp/Mix.zip", "Failed to download 1 tracks", "2. Two: no match found"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in summary:\n%s", want, got)
		}
	}
}

func TestProgress(t *testing.T) {
	u := tasks.ProgressUpdate{Phase: tasks.ItemFailed, Message: "[1/1] ✗ x: boom"}
	if got := Progress(u); !strings.Contains(got, "boom") {
		t.Errorf("expected message in %q", got)
	}
}

func TestBadge(t *testing.T) {
	tests := []struct {
		provider models.Provider
		want     string
	}{
		{models.ProviderYouTube, "YouTube"},
		{models.ProviderSpotify, "Spotify"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if got := Badge(tt.provider); !strings.Contains(got, tt.want) {
				t.Errorf("Badge(%q) = %q, want it to contain %q", tt.provider, got, tt.want)
			}
		})
	}
}
