package shared

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{name: "basic normalization", title: "Song Title", artist: "Artist Name", want: "song title|artist name"},
		{name: "extra whitespace", title: "  Song   Title  ", artist: "  Artist   Name  ", want: "song title|artist name"},
		{name: "mixed case", title: "SoNg TiTlE", artist: "ArTiSt NaMe", want: "song title|artist name"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTrackKey(tt.title, tt.artist); got != tt.want {
				t.Errorf("NormalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{`AC/DC - Back In Black`, "ACDC - Back In Black"},
		{`What? <Live> "2020"`, "What Live 2020"},
		{`a:b*c|d\e`, "abcde"},
		{"tab\there", "tabhere"},
		{"  ..hidden.. ", "hidden"},
		{`???`, "untitled"},
		{"Plain Title", "Plain Title"},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStamp(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	if got := Stamp("Favorites", ts); got != "Favorites_20240309_070501" {
		t.Errorf("Stamp() = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Run("empty defaults to info", func(t *testing.T) {
		lvl, err := ParseLogLevel("")
		if err != nil || lvl != log.InfoLevel {
			t.Errorf("got %v, %v", lvl, err)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		lvl, err := ParseLogLevel(" DEBUG ")
		if err != nil || lvl != log.DebugLevel {
			t.Errorf("got %v, %v", lvl, err)
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		if _, err := ParseLogLevel("loud"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestErrorKind(t *testing.T) {
	tc := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: empty query", ErrValidation), "validation"},
		{fmt.Errorf("wrapped twice: %w", fmt.Errorf("%w: x", ErrNoMatchFound)), "no_match_found"},
		{ErrAllDownloadsFailed, "all_downloads_failed"},
		{context.DeadlineExceeded, "timeout"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tc {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestOpenURL(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() { getRuntime, startCommand = origRuntime, origStart })

	t.Run("builds platform command", func(t *testing.T) {
		var gotName string
		var gotArgs []string
		getRuntime = func() string { return "windows" }
		startCommand = func(name string, args ...string) error {
			gotName, gotArgs = name, args
			return nil
		}

		if err := OpenURL("https://pay.example/link/1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotName != "cmd" || len(gotArgs) != 3 || gotArgs[2] != "https://pay.example/link/1" {
			t.Errorf("unexpected command %s %v", gotName, gotArgs)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenURL("https://example.com"); !errors.Is(err, ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})
}

func TestPurgeMatching(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp3", "b.mp3.part", "keep.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := PurgeMatching(dir, PartialPatterns...)
	if err != nil {
		t.Fatalf("PurgeMatching() error = %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 files removed, got %d", n)
	}
	if !FileExists(filepath.Join(dir, "keep.json")) {
		t.Error("keep.json should survive")
	}
	if FileExists(filepath.Join(dir, "a.mp3")) {
		t.Error("a.mp3 should be removed")
	}
}
