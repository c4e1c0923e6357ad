package formatter

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
	th "github.com/desertthunder/ytbox/internal/testing"
)

func sampleDoc() models.PlaylistDocument {
	return models.PlaylistDocument{
		Name:    "Road Trip",
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Songs: []models.Track{
			{
				Title:           "Song One",
				Artist:          "Artist One",
				Album:           "Album One",
				DurationSeconds: 180,
				ThumbnailURL:    "https://i.ytimg.com/vi/aaaaaaaaaaa/hq.jpg",
				SourceProvider:  models.ProviderYouTube,
				SourceURL:       "https://www.youtube.com/watch?v=aaaaaaaaaaa",
			},
			{
				Title:           "Song, Two",
				Artist:          "Artist Two",
				DurationSeconds: 240,
				SourceProvider:  models.ProviderSpotify,
				SourceURL:       "https://open.spotify.com/track/xyz",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"JSON", FormatJSON},
		{"csv", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"text", FormatText},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	doc := sampleDoc()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(doc)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Title,Artist,Album,Duration,Provider,URL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Song One,Artist One,Album One,180,youtube,https://www.youtube.com/watch?v=aaaaaaaaaaa") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV should quote fields with commas, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(doc, "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			if !strings.Contains(output, "# Road Trip") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(output, "**Tracks**: 2") {
				t.Errorf("Markdown missing track count")
			}
			if !strings.Contains(output, "1. [Artist One - Song One](https://www.youtube.com/watch?v=aaaaaaaaaaa) (Album One) [3:00]") {
				t.Errorf("Markdown missing track1, got: %s", output)
			}
			if !strings.Contains(output, "2. [Artist Two - Song, Two](https://open.spotify.com/track/xyz) [4:00]") {
				t.Errorf("Markdown missing track2, got: %s", output)
			}
			if strings.Contains(output, "![Cover]") {
				t.Errorf("Markdown should not reference a cover")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(doc, "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(doc)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"Playlist: Road Trip", "Tracks: 2", "1. Artist One - Song One", "2. Artist Two - Song, Two"} {
			if !strings.Contains(output, want) {
				t.Errorf("text export missing %q, got: %s", want, output)
			}
		}
	})
}

func TestJSONRoundTrip(t *testing.T) {
	doc := sampleDoc()
	data, err := ExportToJSON(doc)
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}
	for _, key := range []string{`"name"`, `"created"`, `"songs"`, `"duration_seconds"`, `"thumbnail_url"`, `"source_provider"`, `"source_url"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing key %s", key)
		}
	}

	parsed, err := ParsePlaylistDocument(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("ParsePlaylistDocument failed: %v", err)
	}
	if parsed.Name != doc.Name || len(parsed.Songs) != 2 || !parsed.Created.Equal(doc.Created) {
		t.Errorf("round trip mismatch: %+v", parsed)
	}
	for i := range doc.Songs {
		if parsed.Songs[i] != doc.Songs[i] {
			t.Errorf("song %d differs: %+v vs %+v", i, parsed.Songs[i], doc.Songs[i])
		}
	}

	t.Run("empty playlist renders an empty array", func(t *testing.T) {
		data, err := ExportToJSON(models.PlaylistDocument{Name: "Empty"})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"songs": []`) {
			t.Errorf("expected empty songs array, got %s", data)
		}
	})
}

func TestParsePlaylistDocument(t *testing.T) {
	t.Run("legacy keys", func(t *testing.T) {
		input := `{
			"name": "Old",
			"created": "2023-05-06T07:08:09.123456",
			"songs": [
				{"title": "A", "uploader": "B", "duration": 201.0, "thumbnail": "t.jpg", "url": "https://www.youtube.com/watch?v=bbbbbbbbbbb", "id": "bbbbbbbbbbb"},
				{"title": "no url"}
			]
		}`
		doc, err := ParsePlaylistDocument(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Songs) != 1 {
			t.Fatalf("expected the url-less song to be dropped, got %d songs", len(doc.Songs))
		}
		s := doc.Songs[0]
		if s.Artist != "B" || s.DurationSeconds != 201 || s.SourceProvider != models.ProviderYouTube || s.ThumbnailURL != "t.jpg" {
			t.Errorf("legacy song not normalized: %+v", s)
		}
		if doc.Created.Year() != 2023 {
			t.Errorf("expected created to parse, got %v", doc.Created)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		if _, err := ParsePlaylistDocument(strings.NewReader("{not json")); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadPlaylistFile(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, shared.ErrFilesystem) {
			t.Errorf("expected ErrFilesystem, got %v", err)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("successful download", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("fake image data"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.Client(), server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "fake image data" {
			t.Errorf("Expected 'fake image data', got %s", string(data))
		}
	})

	t.Run("HTTP error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.Client(), server.URL); err == nil {
			t.Error("Expected error for 404 response")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if _, err := DownloadImage(nil, ""); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	doc := sampleDoc()

	t.Run("single file formats", func(t *testing.T) {
		for _, f := range []Format{FormatJSON, FormatCSV, FormatText} {
			dir := t.TempDir()
			files, err := WriteExport(doc, f, dir, nil)
			if err != nil {
				t.Fatalf("%s: %v", f, err)
			}
			want := filepath.Join(dir, "Road Trip."+f.Extension())
			if len(files) != 1 || files[0] != want {
				t.Errorf("%s: expected [%s], got %v", f, want, files)
			}
			th.AssertFileExists(t, want)
		}
	})

	t.Run("markdown with cover", func(t *testing.T) {
		dir := t.TempDir()
		var requested string
		cover := func(url string) ([]byte, error) {
			requested = url
			return []byte("jpeg"), nil
		}

		files, err := WriteExport(doc, FormatMarkdown, dir, cover)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if requested != doc.Songs[0].ThumbnailURL {
			t.Errorf("expected cover from first thumbnail, got %q", requested)
		}
		if len(files) != 2 {
			t.Fatalf("expected cover and README, got %v", files)
		}
		readme := th.MustReadFile(t, filepath.Join(dir, "Road Trip", "README.md"))
		if !strings.Contains(readme, "![Cover](cover.jpg)") {
			t.Errorf("README should reference the cover")
		}
	})

	t.Run("markdown cover failure is ignored", func(t *testing.T) {
		dir := t.TempDir()
		files, err := WriteExport(doc, FormatMarkdown, dir, func(string) ([]byte, error) {
			return nil, errors.New("offline")
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 1 {
			t.Errorf("expected only README, got %v", files)
		}
	})

	t.Run("unwritable directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		th.MustWriteFile(t, file, "x")
		if _, err := WriteExport(doc, FormatJSON, file, nil); !errors.Is(err, shared.ErrFilesystem) {
			t.Errorf("expected ErrFilesystem, got %v", err)
		}
	})
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(map[string]int{"total": 2}, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"total": 2`) {
		t.Errorf("unexpected manifest %s", data)
	}
}
