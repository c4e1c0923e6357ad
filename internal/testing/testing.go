// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/services"
	"github.com/desertthunder/ytbox/internal/shared"
)

// QuietLogger returns a logger that discards everything.
func QuietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

// YouTubeTrack builds a valid YouTube track whose video id is derived from n.
func YouTubeTrack(n int, title string) models.Track {
	id := fmt.Sprintf("vid%08d", n)
	return models.Track{
		Title:            title,
		Artist:           "Artist " + title,
		DurationSeconds:  180 + n,
		SourceProvider:   models.ProviderYouTube,
		SourceURL:        models.YouTubeWatchURL(id),
		ProviderNativeID: id,
	}
}

// SpotifyTrack builds a valid Spotify track.
func SpotifyTrack(id, title, artist string) models.Track {
	return models.Track{
		Title:            title,
		Artist:           artist,
		SourceProvider:   models.ProviderSpotify,
		SourceURL:        models.SpotifyTrackURL(id),
		ProviderNativeID: id,
	}
}

// FakeExtractor is a test double for the acquisition extractor. It writes a small
// file per call unless the source URL is listed in Fail.
type FakeExtractor struct {
	mu    sync.Mutex
	Fail  map[string]error
	Calls []string
}

func (f *FakeExtractor) Extract(_ context.Context, sourceURL, dir, basename string) (string, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, sourceURL)
	err := f.Fail[sourceURL]
	f.mu.Unlock()

	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, basename+".mp3")
	if err := os.WriteFile(path, []byte("ID3 fake audio for "+sourceURL), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// CallCount returns how many extractions were requested.
func (f *FakeExtractor) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// FakeLookup is a test double for the gateway's search and url resolution.
// Unknown urls resolve to [shared.ErrTrackNotFound].
type FakeLookup struct {
	Results  map[string][]models.Track
	Resolved map[string]models.Track
	Err      error
	Queries  []string
}

func (f *FakeLookup) ResolveByURL(_ context.Context, raw string) (*models.Track, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	t, ok := f.Resolved[raw]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, raw)
	}
	return &t, nil
}

func (f *FakeLookup) Search(_ context.Context, query string, provider models.Provider, limit int) (*services.SearchResult, error) {
	f.Queries = append(f.Queries, fmt.Sprintf("%s|%s|%d", query, provider, limit))
	if f.Err != nil {
		return nil, f.Err
	}
	tracks := f.Results[query]
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return &services.SearchResult{Query: query, Provider: provider, Tracks: tracks}, nil
}

// Offer records one file handed to a [FakeSink].
type Offer struct {
	Filename string
	MimeType string
	Data     []byte
}

// FakeSink collects offered files in memory.
type FakeSink struct {
	Offers []Offer
	Err    error
}

func (f *FakeSink) Offer(_ context.Context, data []byte, filename, mimeType string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Offers = append(f.Offers, Offer{Filename: filename, MimeType: mimeType, Data: data})
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
